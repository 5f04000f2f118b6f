package model

// Log is one usage/billing record as returned by GET /api/log/token.
// It is decoded once and never modified; display strings live in logquery.DisplayRecord.
type Log struct {
	Id               int    `json:"id"`
	CreatedAt        int64  `json:"created_at"`
	Type             int    `json:"type"`
	Content          string `json:"content"`
	Username         string `json:"username"`
	TokenName        string `json:"token_name"`
	ModelName        string `json:"model_name"`
	Quota            int64  `json:"quota"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
	UseTime          int    `json:"use_time"`
	IsStream         bool   `json:"is_stream"`
	ChannelId        int    `json:"channel"`
	// LegacyChannelId is filled by backends that still send "channel_id".
	LegacyChannelId int    `json:"channel_id,omitempty"`
	ChannelName     string `json:"channel_name"`
	TokenId         int    `json:"token_id"`
	Group           string `json:"group"`
	Ip              string `json:"ip"`
	RequestId       string `json:"request_id"`
	Other           string `json:"other"`

	InputPriceDisplay   string `json:"input_price_display"`
	OutputPriceDisplay  string `json:"output_price_display"`
	InputAmountDisplay  string `json:"input_amount_display"`
	OutputAmountDisplay string `json:"output_amount_display"`
}

const (
	LogTypeUnknown = iota
	LogTypeTopup
	LogTypeConsume
	LogTypeManage
	LogTypeSystem
	LogTypeError
	LogTypeRefund
)

// ChannelID returns the channel id under either wire name.
func (l Log) ChannelID() int {
	if l.ChannelId != 0 {
		return l.ChannelId
	}
	return l.LegacyChannelId
}

// HasPriceDisplay reports whether the backend computed any of the price/amount strings.
func (l Log) HasPriceDisplay() bool {
	return l.InputPriceDisplay != "" || l.OutputPriceDisplay != "" ||
		l.InputAmountDisplay != "" || l.OutputAmountDisplay != ""
}
