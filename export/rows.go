package export

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/songquanpeng/finlogs/common/helper"
	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/common/render"
	"github.com/songquanpeng/finlogs/logquery"
)

var headerKeys = []string{
	"No.", "ID", "Time", "Type", "Token Name", "Model", "Quota",
	"Prompt Tokens", "Completion Tokens", "Input Price", "Output Price",
	"Input Amount", "Output Amount", "Stream", "Channel ID", "Token ID", "IP", "Other",
}

// ColumnWidths are the sheet column widths, one per header.
var ColumnWidths = []float64{6, 10, 20, 8, 20, 15, 12, 10, 10, 14, 14, 14, 14, 8, 10, 10, 15, 20}

const (
	colModel        = 5
	colPrompt       = 7
	colCompletion   = 8
	colInputAmount  = 11
	colOutputAmount = 12
)

// Totals are the running sums shown under the data rows.
type Totals struct {
	PromptTokens     int64
	CompletionTokens int64
	InputAmount      decimal.Decimal
	OutputAmount     decimal.Decimal
}

// Result is an assembled export ready to be written.
type Result struct {
	SheetName string
	Header    []string
	Rows      [][]any
	Totals    Totals
	// Summary and GrandTotal follow Rows after one blank row.
	Summary    []any
	GrandTotal []any
	Filename   string
}

// Records returns the number of data rows.
func (r *Result) Records() int { return len(r.Rows) }

// Filename renders "<label>_<timestamp>.xlsx" with ':' and ' ' replaced by '_'.
func Filename(label string, now time.Time) string {
	return label + "_" + helper.FileTimestamp(now) + ".xlsx"
}

func buildResult(records []logquery.DisplayRecord, t i18n.Translator) *Result {
	res := &Result{
		SheetName: t.T("financial_logs"),
		Header:    make([]string, len(headerKeys)),
		Rows:      make([][]any, 0, len(records)),
	}
	for i, k := range headerKeys {
		res.Header[i] = t.T(k)
	}

	for i, d := range records {
		l := d.Log
		res.Rows = append(res.Rows, []any{
			i + 1,
			l.Id,
			d.Timestamp,
			d.TypeLabel,
			render.DisplayOrPlaceholder(l.TokenName),
			render.DisplayOrPlaceholder(l.ModelName),
			d.QuotaDisplay,
			l.PromptTokens,
			l.CompletionTokens,
			d.InputPriceDisplay,
			d.OutputPriceDisplay,
			d.InputAmountDisplay,
			d.OutputAmountDisplay,
			d.StreamLabel,
			intOrPlaceholder(l.ChannelID()),
			intOrPlaceholder(l.TokenId),
			render.DisplayOrPlaceholder(l.Ip),
			render.DisplayOrPlaceholder(l.Other),
		})

		res.Totals.PromptTokens += l.PromptTokens
		res.Totals.CompletionTokens += l.CompletionTokens
		if v, ok := render.ParseAmount(d.InputAmountDisplay); ok {
			res.Totals.InputAmount = res.Totals.InputAmount.Add(v)
		}
		if v, ok := render.ParseAmount(d.OutputAmountDisplay); ok {
			res.Totals.OutputAmount = res.Totals.OutputAmount.Add(v)
		}
	}

	lang := t.Lang()
	res.Summary = blankRow()
	res.Summary[colModel] = t.T("Summary")
	res.Summary[colPrompt] = render.Grouped(res.Totals.PromptTokens, lang)
	res.Summary[colCompletion] = render.Grouped(res.Totals.CompletionTokens, lang)
	res.Summary[colInputAmount] = render.DecimalAmount(res.Totals.InputAmount)
	res.Summary[colOutputAmount] = render.DecimalAmount(res.Totals.OutputAmount)

	res.GrandTotal = blankRow()
	res.GrandTotal[colModel] = t.T("Grand Total")
	res.GrandTotal[colInputAmount] = render.DecimalAmount(res.Totals.InputAmount.Add(res.Totals.OutputAmount))
	return res
}

func blankRow() []any {
	row := make([]any, len(headerKeys))
	for i := range row {
		row[i] = ""
	}
	return row
}

func intOrPlaceholder(v int) any {
	if v == 0 {
		return render.Placeholder
	}
	return strconv.Itoa(v)
}
