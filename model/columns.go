package model

import (
	"maps"

	"github.com/bytedance/sonic"
)

// Column identifiers of the financial logs table.
const (
	ColumnID               = "id"
	ColumnCreatedAt        = "created_at"
	ColumnType             = "type"
	ColumnTokenName        = "token_name"
	ColumnModelName        = "model_name"
	ColumnQuota            = "quota"
	ColumnPromptTokens     = "prompt_tokens"
	ColumnCompletionTokens = "completion_tokens"
	ColumnInputPrice       = "input_price"
	ColumnOutputPrice      = "output_price"
	ColumnInputAmount      = "input_amount"
	ColumnOutputAmount     = "output_amount"
	ColumnIsStream         = "is_stream"
	ColumnChannelID        = "channel_id"
	ColumnTokenID          = "token_id"
	ColumnGroup            = "group"
	ColumnIP               = "ip"
	ColumnOther            = "other"
)

// ColumnOrder is the display order of the table.
var ColumnOrder = []string{
	ColumnID, ColumnCreatedAt, ColumnType, ColumnTokenName, ColumnModelName, ColumnQuota,
	ColumnPromptTokens, ColumnCompletionTokens, ColumnInputPrice, ColumnOutputPrice,
	ColumnInputAmount, ColumnOutputAmount, ColumnIsStream, ColumnChannelID, ColumnTokenID,
	ColumnGroup, ColumnIP, ColumnOther,
}

// ColumnVisibility maps a column id to whether it is shown.
type ColumnVisibility map[string]bool

// DefaultColumnVisibility returns a fresh copy of the default column set.
func DefaultColumnVisibility() ColumnVisibility {
	return ColumnVisibility{
		ColumnID:               true,
		ColumnCreatedAt:        true,
		ColumnType:             true,
		ColumnTokenName:        true,
		ColumnModelName:        true,
		ColumnQuota:            true,
		ColumnPromptTokens:     true,
		ColumnCompletionTokens: true,
		ColumnInputPrice:       true,
		ColumnOutputPrice:      true,
		ColumnInputAmount:      true,
		ColumnOutputAmount:     true,
		ColumnIsStream:         false,
		ColumnChannelID:        false,
		ColumnTokenID:          false,
		ColumnGroup:            true,
		ColumnIP:               false,
		ColumnOther:            false,
	}
}

// IsKnownColumn reports whether id is a column of the table.
func IsKnownColumn(id string) bool {
	_, ok := DefaultColumnVisibility()[id]
	return ok
}

// MergeColumnVisibility overlays a stored JSON blob onto the current defaults, so
// columns added after the blob was written still get their default visibility.
// ok is false when the blob cannot be parsed; the defaults are returned in that case.
func MergeColumnVisibility(stored string) (merged ColumnVisibility, ok bool) {
	merged = DefaultColumnVisibility()
	if stored == "" {
		return merged, true
	}

	var parsed map[string]bool
	if err := sonic.UnmarshalString(stored, &parsed); err != nil {
		return merged, false
	}
	maps.Copy(merged, parsed)
	return merged, true
}

// Visible lists the visible column ids in display order.
func (v ColumnVisibility) Visible() []string {
	out := make([]string, 0, len(ColumnOrder))
	for _, id := range ColumnOrder {
		if v[id] {
			out = append(out, id)
		}
	}
	return out
}

// Clone returns an independent copy.
func (v ColumnVisibility) Clone() ColumnVisibility {
	return maps.Clone(v)
}

// Encode serializes the map for storage.
func (v ColumnVisibility) Encode() (string, error) {
	return sonic.MarshalString(map[string]bool(v))
}
