package logquery

import (
	"github.com/Laisky/errors/v2"

	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/model"
)

// ErrFetchFailed matches every TransportError via errors.Is.
var ErrFetchFailed = errors.New("fetch failed")

// ValidationError rejects a query before any request is sent.
type ValidationError struct {
	// MissingKey is set when the token key is empty after trimming.
	MissingKey bool
	Err        error
}

func (e *ValidationError) Error() string {
	if e.MissingKey {
		return "token key is required"
	}
	return "invalid query: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError classifies a criteria validation failure.
func NewValidationError(err error) *ValidationError {
	return &ValidationError{MissingKey: model.MissingTokenKey(err), Err: err}
}

// ServerError carries the message of a success=false response.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server rejected request: " + e.Message
}

// TransportError wraps network, status and decode failures. The detail is for logs only.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "fetch failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrFetchFailed }

// UserMessage maps a logquery error to the text shown to a user.
func UserMessage(err error, t i18n.Translator) string {
	var verr *ValidationError
	var serr *ServerError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		if verr.MissingKey {
			return t.T("Please enter the token key")
		}
		return t.T("Invalid filter: {{reason}}", "reason", verr.Err.Error())
	case errors.As(err, &serr):
		if serr.Message == "" {
			return t.T("Failed to load logs, please retry")
		}
		return serr.Message
	default:
		return t.T("Failed to load logs, please retry")
	}
}
