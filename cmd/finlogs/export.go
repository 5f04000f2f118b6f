package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/songquanpeng/finlogs/common"
	"github.com/songquanpeng/finlogs/export"
)

func (a *app) runExport(ctx context.Context, args []string) error {
	fs := newFlagSet("export", a.stdout)
	var filters filterFlags
	filters.register(fs)
	out := fs.String("out", ".", "directory the xlsx file is written to")
	yes := fs.Bool("yes", false, "skip the confirmation for large exports")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := a.newView(nil)
	v.SetFilters(filters.form(), filters.key)

	res, err := v.Export(ctx, func(_ context.Context, total int) bool {
		if *yes {
			return true
		}
		if !a.interactive {
			a.logger.Warn("large export needs --yes when stdin is not a terminal", zap.Int("total", total))
			return false
		}
		return a.confirm(a.t.T("{{count}} records match, exporting may take a while. Continue?", "count", total))
	})
	switch {
	case errors.Is(err, export.ErrExportDeclined):
		fmt.Fprintln(a.stdout, a.t.T("Export cancelled"))
		return nil
	case err != nil:
		return errors.Wrap(err, export.UserMessage(err, a.t))
	}

	dir, err := common.EnsureDir(*out)
	if err != nil {
		return errors.Wrapf(err, "create output directory %q", *out)
	}
	path := filepath.Join(dir, res.Filename)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	if err := res.WriteXLSX(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %q", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %q", path)
	}

	fmt.Fprintln(a.stdout, a.t.T("Exported {{count}} records", "count", res.Records()))
	fmt.Fprintln(a.stdout, path)
	return nil
}

// confirm asks a yes/no question on stdin; anything but y or yes declines.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.stdout, "%s [y/N] ", question)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
