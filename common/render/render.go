// Package render turns raw quota, token and money values into display strings.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/songquanpeng/finlogs/common/config"
)

// Placeholder is shown for absent values.
const Placeholder = "-"

// Quota renders quota as "$" + quota/QuotaPerUnit with the given number of decimals
// when currency display is enabled, otherwise as an abbreviated number.
func Quota(quota int64, digits int) string {
	if config.DisplayInCurrencyEnabled && config.QuotaPerUnit > 0 {
		return "$" + strconv.FormatFloat(float64(quota)/config.QuotaPerUnit, 'f', digits, 64)
	}
	return Number(quota)
}

// Number abbreviates large counts: 12345 -> "12.3k", 2500000 -> "2.5M".
func Number(n int64) string {
	f := float64(n)
	switch {
	case n >= 1_000_000_000:
		return strconv.FormatFloat(f/1e9, 'f', 1, 64) + "B"
	case n >= 1_000_000:
		return strconv.FormatFloat(f/1e6, 'f', 1, 64) + "M"
	case n >= 10_000:
		return strconv.FormatFloat(f/1e3, 'f', 1, 64) + "k"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Grouped renders n with the thousands separator of lang, e.g. "1,234,567".
func Grouped(n int64, lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprintf("%d", n)
}

// Price renders a per-million-token price, e.g. "$2.000 / 1M".
func Price(usdPerMillion float64) string {
	return fmt.Sprintf("$%.3f / 1M", usdPerMillion)
}

// Amount renders a money amount with six decimals, e.g. "$0.000123".
func Amount(usd float64) string {
	return fmt.Sprintf("$%.6f", usd)
}

// DecimalAmount renders d like Amount.
func DecimalAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(6)
}

// DisplayOrPlaceholder returns s, or Placeholder when s is blank.
func DisplayOrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// ParseAmount reads a money display string such as "$0.001200" or "¥1,234.5" back into a decimal.
// It reports false for placeholders and unparseable input.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == Placeholder {
		return decimal.Zero, false
	}
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	s = strings.TrimLeft(s, "$¥￥€£")
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
