package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/songquanpeng/finlogs/common/utils"
	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/model"
)

// FormState mirrors the filter form. Values are kept as entered.
type FormState struct {
	Key       string    `json:"key"`
	Type      string    `json:"type"`
	ModelName string    `json:"model_name"`
	Group     string    `json:"group"`
	DateRange [2]string `json:"date_range"`
}

// FormInitValues is the state of a freshly reset form.
func FormInitValues() FormState {
	return FormState{Type: "0"}
}

// BuildQuery normalizes form values into query criteria.
// tokenKey, when set, takes precedence over form.Key.
func BuildQuery(form FormState, tokenKey string, mode model.PaginationMode, now time.Time, loc *time.Location) (model.QueryCriteria, error) {
	key := strings.TrimSpace(tokenKey)
	if key == "" {
		key = strings.TrimSpace(form.Key)
	}

	logType, err := strconv.Atoi(strings.TrimSpace(form.Type))
	if err != nil {
		logType = 0
	}

	start, end, err := utils.ResolveDateRange(form.DateRange[0], form.DateRange[1], now, loc)
	if err != nil {
		return model.QueryCriteria{}, &logquery.ValidationError{Err: err}
	}

	if mode == "" {
		mode = model.PaginationOffset
	}
	q := model.QueryCriteria{
		TokenKey:       key,
		Type:           logType,
		ModelName:      strings.TrimSpace(form.ModelName),
		Group:          strings.TrimSpace(form.Group),
		StartTimestamp: start,
		EndTimestamp:   end,
		PaginationMode: mode,
	}
	if err := q.Validate(); err != nil {
		return model.QueryCriteria{}, logquery.NewValidationError(err)
	}
	return q, nil
}
