package main

import (
	"context"
	"fmt"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/songquanpeng/finlogs/controller"
	"github.com/songquanpeng/finlogs/model"
)

func (a *app) runQuery(ctx context.Context, args []string) error {
	fs := newFlagSet("query", a.stdout)
	var filters filterFlags
	filters.register(fs)
	page := fs.Int("page", 1, "page to show in offset mode")
	pageSize := fs.Int("page-size", 0, "records per page: 10, 20, 40 or 100 (default: the saved size)")
	cursor := fs.Bool("cursor", false, "use cursor pagination")
	pages := fs.Int("pages", 1, "cursor pages to load, each appended to the table")
	columns := fs.String("columns", "", "comma separated columns to show for this run (default: the saved set)")
	compact := fs.Bool("compact", false, "dense table, saved for later runs")
	copyTable := fs.Bool("copy", false, "copy the table as tab separated text via the terminal clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := a.newView(controller.OSC52Clipboard{W: a.stdout})
	v.SetFilters(filters.form(), filters.key)
	v.RestorePreferences(ctx)

	if flagWasSet(fs, "compact") {
		if err := v.SetCompactMode(ctx, *compact); err != nil {
			a.logger.Warn("compact mode not saved", zap.Error(err))
		}
	}

	mode := model.PaginationOffset
	if *cursor {
		mode = model.PaginationCursor
	}
	if err := v.Preset(ctx, mode, *pageSize); err != nil {
		return errors.Wrapf(err, "page size %d", *pageSize)
	}

	if err := a.load(ctx, v, mode, *page, *pages); err != nil {
		return errors.Wrap(err, v.Snapshot().Error)
	}

	snap := v.Snapshot()
	visible := snap.VisibleColumns
	if *columns != "" {
		visible = nil
		for _, id := range splitList(*columns) {
			if !model.IsKnownColumn(id) {
				return errors.Errorf("unknown column %q", id)
			}
			visible = append(visible, id)
		}
	}

	header, rows := tableRows(snap.Records, visible, a.t)
	renderTable(a.stdout, header, rows, snap.Compact)
	fmt.Fprintln(a.stdout, snap.Stats)
	for _, r := range snap.Records {
		if r.Estimated {
			fmt.Fprintln(a.stdout, a.t.T("* Estimated from default prices"))
			break
		}
	}

	if *copyTable {
		notice := v.CopyText(ctx, nil, tsv(header, rows))
		if !notice.Copied {
			fmt.Fprintln(a.stdout, notice.Message)
		}
	}
	return nil
}

func (a *app) load(ctx context.Context, v *controller.FinancialLogs, mode model.PaginationMode, page, pages int) error {
	if mode == model.PaginationOffset {
		if page < 1 {
			page = 1
		}
		return v.GoToPage(ctx, page)
	}

	if err := v.Refresh(ctx); err != nil {
		return err
	}
	for i := 1; i < pages; i++ {
		if !v.Snapshot().Pagination.HasMore {
			break
		}
		if err := v.LoadNext(ctx); err != nil {
			return err
		}
	}
	return nil
}
