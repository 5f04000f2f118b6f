package model

import (
	"strings"
	"sync"

	"github.com/Laisky/errors/v2"
	"github.com/go-playground/validator/v10"
)

// PaginationMode selects how the log endpoint pages through results.
type PaginationMode string

const (
	// PaginationOffset pages by page number and reports a total count.
	PaginationOffset PaginationMode = "offset"
	// PaginationCursor follows server issued cursors and never computes a total.
	PaginationCursor PaginationMode = "cursor"
)

// ParsePaginationMode accepts "offset" or "cursor" in any case.
func ParsePaginationMode(s string) (PaginationMode, error) {
	switch PaginationMode(strings.ToLower(strings.TrimSpace(s))) {
	case PaginationOffset:
		return PaginationOffset, nil
	case PaginationCursor:
		return PaginationCursor, nil
	default:
		return "", errors.Errorf("unknown pagination mode %q", s)
	}
}

// QueryCriteria is the normalized filter sent to the log endpoint.
// It is rebuilt from form state before every fetch.
type QueryCriteria struct {
	TokenKey       string         `json:"token_key" validate:"required"`
	Type           int            `json:"type" validate:"min=0,max=6"`
	ModelName      string         `json:"model_name,omitempty"`
	Group          string         `json:"group,omitempty"`
	StartTimestamp int64          `json:"start_timestamp" validate:"gte=0"`
	EndTimestamp   int64          `json:"end_timestamp" validate:"gtefield=StartTimestamp"`
	PaginationMode PaginationMode `json:"pagination_mode" validate:"oneof=offset cursor"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func criteriaValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field constraints. A blank token key fails the "required" rule.
func (q QueryCriteria) Validate() error {
	q.TokenKey = strings.TrimSpace(q.TokenKey)
	if err := criteriaValidator().Struct(q); err != nil {
		return errors.Wrap(err, "invalid query criteria")
	}
	return nil
}

// MissingTokenKey reports whether err came from an empty token key.
func MissingTokenKey(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Field() == "TokenKey" {
			return true
		}
	}
	return false
}
