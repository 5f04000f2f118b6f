package main

import (
	"context"
	"strconv"

	"github.com/Laisky/errors/v2"
	"github.com/olekukonko/tablewriter"

	"github.com/songquanpeng/finlogs/model"
)

func (a *app) runColumns(ctx context.Context, args []string) error {
	fs := newFlagSet("columns", a.stdout)
	show := fs.String("show", "", "comma separated columns to show")
	hide := fs.String("hide", "", "comma separated columns to hide")
	all := fs.Bool("all", false, "show every column")
	none := fs.Bool("none", false, "hide every column")
	reset := fs.Bool("reset", false, "restore the default columns")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *all && *none {
		return errors.New("--all and --none are exclusive")
	}

	v := a.newView(nil)
	v.RestorePreferences(ctx)

	var err error
	switch {
	case *reset:
		err = v.ResetColumns(ctx)
	case *all:
		err = v.SelectAllColumns(ctx, true)
	case *none:
		err = v.SelectAllColumns(ctx, false)
	}
	if err != nil {
		return errors.Wrap(err, "save columns")
	}

	for _, id := range splitList(*show) {
		if err := v.SetColumnVisible(ctx, id, true); err != nil {
			return err
		}
	}
	for _, id := range splitList(*hide) {
		if err := v.SetColumnVisible(ctx, id, false); err != nil {
			return err
		}
	}

	columns := v.Snapshot().Columns
	table := tablewriter.NewWriter(a.stdout)
	table.SetHeader([]string{a.t.T("Column"), a.t.T("Visible")})
	table.SetBorder(false)
	for _, id := range model.ColumnOrder {
		table.Append([]string{id, strconv.FormatBool(columns[id])})
	}
	table.Render()
	return nil
}
