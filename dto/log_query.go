package dto

import "github.com/songquanpeng/finlogs/model"

// LogQueryResponse is the envelope returned by GET /api/log/token.
// Offset mode fills page, page_size, total and pages. Cursor mode fills next_cursor and has_more.
type LogQueryResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       []model.Log `json:"data"`
	Page       int         `json:"page,omitempty"`
	PageSize   int         `json:"page_size,omitempty"`
	Total      int         `json:"total,omitempty"`
	Pages      int         `json:"pages,omitempty"`
	NextCursor *string     `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more,omitempty"`
}

// PricingModel is one model's ratio pair from GET /api/pricing.
type PricingModel struct {
	ModelName       string  `json:"model_name"`
	ModelRatio      float64 `json:"model_ratio"`
	CompletionRatio float64 `json:"completion_ratio"`
}

// PricingResponse is the envelope returned by GET /api/pricing.
type PricingResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       []PricingModel     `json:"data"`
	GroupRatio map[string]float64 `json:"group_ratio"`
}
