package export

import (
	"io"
	"unicode/utf8"

	"github.com/Laisky/errors/v2"
	"github.com/xuri/excelize/v2"
)

const maxSheetNameLen = 31

// WriteXLSX streams the result as a single-sheet workbook into w.
func (r *Result) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if name := sheetName(r.SheetName); name != "" {
		if err := f.SetSheetName(sheet, name); err == nil {
			sheet = name
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return errors.Wrap(err, "create stream writer")
	}
	for i, width := range ColumnWidths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return errors.Wrapf(err, "set width of column %d", i+1)
		}
	}

	row := 1
	write := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return sw.SetRow(cell, values)
	}

	header := make([]any, len(r.Header))
	for i, h := range r.Header {
		header[i] = h
	}
	if err := write(header); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, values := range r.Rows {
		if err := write(values); err != nil {
			return errors.Wrapf(err, "write row %d", row)
		}
	}
	row++ // blank separator
	if err := write(r.Summary); err != nil {
		return errors.Wrap(err, "write summary")
	}
	if err := write(r.GrandTotal); err != nil {
		return errors.Wrap(err, "write grand total")
	}

	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "flush sheet")
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func sheetName(name string) string {
	if utf8.RuneCountInString(name) <= maxSheetNameLen {
		return name
	}
	return string([]rune(name)[:maxSheetNameLen])
}
