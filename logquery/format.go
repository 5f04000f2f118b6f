package logquery

import (
	"strconv"
	"time"

	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/helper"
	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/common/render"
	"github.com/songquanpeng/finlogs/model"
)

var typeLabels = map[int]string{
	model.LogTypeUnknown: "All",
	model.LogTypeTopup:   "Recharge",
	model.LogTypeConsume: "Consumption",
	model.LogTypeManage:  "Management",
	model.LogTypeSystem:  "System",
	model.LogTypeError:   "Error",
}

// TypeLabel returns the localized label of a log type.
func TypeLabel(logType int, t i18n.Translator) string {
	if label, ok := typeLabels[logType]; ok {
		return t.T(label)
	}
	return t.T("Unknown")
}

// DisplayRecord is a Log plus its rendered strings.
type DisplayRecord struct {
	Log model.Log `json:"log"`
	// Key is the record id, used as the stable row key.
	Key int `json:"key"`

	Timestamp               string `json:"timestamp"`
	TypeLabel               string `json:"type_label"`
	StreamLabel             string `json:"stream_label"`
	QuotaDisplay            string `json:"quota_display"`
	PromptTokensDisplay     string `json:"prompt_tokens_display"`
	CompletionTokensDisplay string `json:"completion_tokens_display"`
	UseTimeDisplay          string `json:"use_time_display"`
	GroupDisplay            string `json:"group_display"`

	InputPriceDisplay   string `json:"input_price_display"`
	OutputPriceDisplay  string `json:"output_price_display"`
	InputAmountDisplay  string `json:"input_amount_display"`
	OutputAmountDisplay string `json:"output_amount_display"`
	// Estimated marks prices computed locally because the backend sent none.
	Estimated bool `json:"estimated"`
}

// FormatContext carries everything Format needs besides the records.
type FormatContext struct {
	Pricing          *Pricing
	T                i18n.Translator
	Location         *time.Location
	BasePrice        float64
	OutputMultiplier float64
}

// NewFormatContext returns a context using the configured fallback prices and time zone.
func NewFormatContext(pricing *Pricing, t i18n.Translator) FormatContext {
	return FormatContext{
		Pricing:          pricing,
		T:                t,
		Location:         config.Location(),
		BasePrice:        config.FallbackBasePrice,
		OutputMultiplier: config.FallbackOutputMultiplier,
	}
}

// Format renders records in order. The input slice is not modified.
func Format(records []model.Log, fc FormatContext) []DisplayRecord {
	out := make([]DisplayRecord, 0, len(records))
	for _, r := range records {
		out = append(out, formatOne(r, fc))
	}
	return out
}

func formatOne(r model.Log, fc FormatContext) DisplayRecord {
	lang := fc.T.Lang()
	d := DisplayRecord{
		Log:                     r,
		Key:                     r.Id,
		Timestamp:               helper.Timestamp2String(r.CreatedAt, fc.Location),
		TypeLabel:               TypeLabel(r.Type, fc.T),
		QuotaDisplay:            render.Quota(r.Quota, 6),
		PromptTokensDisplay:     render.Grouped(r.PromptTokens, lang),
		CompletionTokensDisplay: render.Grouped(r.CompletionTokens, lang),
		UseTimeDisplay:          render.Placeholder,
		GroupDisplay:            render.DisplayOrPlaceholder(r.Group),
	}
	if r.IsStream {
		d.StreamLabel = fc.T.T("Yes")
	} else {
		d.StreamLabel = fc.T.T("No")
	}
	if r.UseTime > 0 {
		d.UseTimeDisplay = strconv.Itoa(r.UseTime) + "s"
	}

	if r.HasPriceDisplay() {
		d.InputPriceDisplay = render.DisplayOrPlaceholder(r.InputPriceDisplay)
		d.OutputPriceDisplay = render.DisplayOrPlaceholder(r.OutputPriceDisplay)
		d.InputAmountDisplay = render.DisplayOrPlaceholder(r.InputAmountDisplay)
		d.OutputAmountDisplay = render.DisplayOrPlaceholder(r.OutputAmountDisplay)
		return d
	}

	inputPrice, multiplier := fc.BasePrice, fc.OutputMultiplier
	if m, ok := fc.Pricing.Model(r.ModelName); ok {
		inputPrice = m.ModelRatio * 2
		if m.CompletionRatio > 0 {
			multiplier = m.CompletionRatio
		}
	}
	outputPrice := inputPrice * multiplier
	group := fc.Pricing.GroupMultiplier(r.Group)

	d.InputPriceDisplay = render.Price(inputPrice)
	d.OutputPriceDisplay = render.Price(outputPrice)
	d.InputAmountDisplay = render.Amount(float64(r.PromptTokens) / 1e6 * inputPrice * group)
	d.OutputAmountDisplay = render.Amount(float64(r.CompletionTokens) / 1e6 * outputPrice * group)
	d.Estimated = true
	return d
}
