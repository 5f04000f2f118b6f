package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/model"
)

type tableColumn struct {
	header string
	cell   func(r logquery.DisplayRecord) string
}

var tableColumns = map[string]tableColumn{
	model.ColumnID:        {"ID", func(r logquery.DisplayRecord) string { return strconv.Itoa(r.Log.Id) }},
	model.ColumnCreatedAt: {"Time", func(r logquery.DisplayRecord) string { return r.Timestamp }},
	model.ColumnType:      {"Type", func(r logquery.DisplayRecord) string { return r.TypeLabel }},
	model.ColumnTokenName: {"Token Name", func(r logquery.DisplayRecord) string { return r.Log.TokenName }},
	model.ColumnModelName: {"Model", func(r logquery.DisplayRecord) string { return r.Log.ModelName }},
	model.ColumnQuota:     {"Quota", func(r logquery.DisplayRecord) string { return r.QuotaDisplay }},
	model.ColumnPromptTokens: {"Prompt Tokens", func(r logquery.DisplayRecord) string {
		return r.PromptTokensDisplay
	}},
	model.ColumnCompletionTokens: {"Completion Tokens", func(r logquery.DisplayRecord) string {
		return r.CompletionTokensDisplay
	}},
	model.ColumnInputPrice:   {"Input Price", func(r logquery.DisplayRecord) string { return r.InputPriceDisplay }},
	model.ColumnOutputPrice:  {"Output Price", func(r logquery.DisplayRecord) string { return r.OutputPriceDisplay }},
	model.ColumnInputAmount:  {"Input Amount", func(r logquery.DisplayRecord) string { return estimated(r, r.InputAmountDisplay) }},
	model.ColumnOutputAmount: {"Output Amount", func(r logquery.DisplayRecord) string { return estimated(r, r.OutputAmountDisplay) }},
	model.ColumnIsStream:     {"Stream", func(r logquery.DisplayRecord) string { return r.StreamLabel }},
	model.ColumnChannelID:    {"Channel ID", func(r logquery.DisplayRecord) string { return idOrDash(r.Log.ChannelID()) }},
	model.ColumnTokenID:      {"Token ID", func(r logquery.DisplayRecord) string { return idOrDash(r.Log.TokenId) }},
	model.ColumnGroup:        {"Group", func(r logquery.DisplayRecord) string { return r.GroupDisplay }},
	model.ColumnIP:           {"IP", func(r logquery.DisplayRecord) string { return orDash(r.Log.Ip) }},
	model.ColumnOther:        {"Other", func(r logquery.DisplayRecord) string { return orDash(r.Log.Other) }},
}

func estimated(r logquery.DisplayRecord, s string) string {
	if r.Estimated && s != "-" {
		return s + "*"
	}
	return s
}

func idOrDash(id int) string {
	if id == 0 {
		return "-"
	}
	return strconv.Itoa(id)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// tableRows renders the visible columns of records, header first.
func tableRows(records []logquery.DisplayRecord, visible []string, t i18n.Translator) (header []string, rows [][]string) {
	for _, id := range visible {
		header = append(header, t.T(tableColumns[id].header))
	}
	for _, r := range records {
		row := make([]string, 0, len(visible))
		for _, id := range visible {
			row = append(row, tableColumns[id].cell(r))
		}
		rows = append(rows, row)
	}
	return header, rows
}

func renderTable(w io.Writer, header []string, rows [][]string, compact bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	if compact {
		table.SetBorder(false)
		table.SetRowLine(false)
		table.SetColumnSeparator(" ")
		table.SetHeaderLine(false)
	} else {
		table.SetRowLine(true)
	}
	table.AppendBulk(rows)
	table.Render()
}

// tsv joins header and rows as tab separated text for the clipboard.
func tsv(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	for _, row := range rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, "\t"))
	}
	return b.String()
}
