package export

import (
	"fmt"

	"github.com/Laisky/errors/v2"

	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/logquery"
)

var (
	// ErrNoData is returned when the probe reports zero matching records.
	ErrNoData = errors.New("no data to export")
	// ErrExportDeclined is returned when a large export was not confirmed. Callers show nothing.
	ErrExportDeclined = errors.New("export declined")
)

// BatchFailure aborts a batched export; rows from earlier batches are discarded.
type BatchFailure struct {
	// Index is 1-based.
	Index int
	Total int
	Err   error
}

func (e *BatchFailure) Error() string {
	return fmt.Sprintf("export batch %d/%d failed: %v", e.Index, e.Total, e.Err)
}

func (e *BatchFailure) Unwrap() error { return e.Err }

// UserMessage maps an export error to user facing text. A declined export yields "".
func UserMessage(err error, t i18n.Translator) string {
	var batchErr *BatchFailure
	var verr *logquery.ValidationError
	var serr *logquery.ServerError
	switch {
	case err == nil, errors.Is(err, ErrExportDeclined):
		return ""
	case errors.Is(err, ErrNoData):
		return t.T("No data to export")
	case errors.As(err, &batchErr):
		return t.T("Export batch {{index}}/{{total}} failed: {{message}}",
			"index", batchErr.Index,
			"total", batchErr.Total,
			"message", logquery.UserMessage(batchErr.Err, t))
	case errors.As(err, &verr), errors.As(err, &serr):
		return logquery.UserMessage(err, t)
	default:
		return t.T("Export failed, please retry")
	}
}
