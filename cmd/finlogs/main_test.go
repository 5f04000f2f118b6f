package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	glog "github.com/Laisky/go-utils/v5/log"
	"github.com/xuri/excelize/v2"

	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/model"
)

type stubFetcher struct {
	directives []logquery.Directive
	handle     func(d logquery.Directive) (*logquery.Result, error)
}

func (s *stubFetcher) Fetch(_ context.Context, _ model.QueryCriteria, d logquery.Directive) (*logquery.Result, error) {
	s.directives = append(s.directives, d)
	return s.handle(d)
}

func testLogs(ids ...int) []model.Log {
	logs := make([]model.Log, 0, len(ids))
	for _, id := range ids {
		logs = append(logs, model.Log{
			Id:           id,
			CreatedAt:    1714557600,
			Type:         model.LogTypeConsume,
			ModelName:    "gpt-4o",
			PromptTokens: 1000,
			Quota:        500,
		})
	}
	return logs
}

func newTestApp(t *testing.T, f *stubFetcher, stdin string) (*app, *bytes.Buffer) {
	t.Helper()
	logger, err := glog.NewConsoleWithName("finlogs-test", glog.LevelError)
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	out := &bytes.Buffer{}
	return &app{
		logger:  logger,
		stdin:   strings.NewReader(stdin),
		stdout:  out,
		fetcher: f,
		prefs:   model.NewMemoryPreferenceStore(),
		t:       i18n.NewTranslator("en"),
		now:     func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) },
	}, out
}

func TestRunRequiresCommand(t *testing.T) {
	a, _ := newTestApp(t, &stubFetcher{}, "")
	if err := a.run(context.Background(), nil); err == nil {
		t.Fatalf("expected an error without a command")
	}
	if err := a.run(context.Background(), []string{"bogus"}); err == nil {
		t.Fatalf("expected an error for an unknown command")
	}
}

func TestQueryOffset(t *testing.T) {
	f := &stubFetcher{handle: func(d logquery.Directive) (*logquery.Result, error) {
		return &logquery.Result{Records: testLogs(7, 8), Page: d.Page, Total: 42}, nil
	}}
	a, out := newTestApp(t, f, "")

	err := a.run(context.Background(), []string{"query", "--key", "sk-test", "--page", "3", "--page-size", "20"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	last := f.directives[len(f.directives)-1]
	if last.Page != 3 || last.PageSize != 20 || last.Cursor != "" {
		t.Fatalf("unexpected directive %+v", last)
	}
	if got := model.LoadPageSize(context.Background(), a.prefs); got != 20 {
		t.Fatalf("saved page size = %d, want 20", got)
	}
	text := out.String()
	for _, want := range []string{"Total: 42", "gpt-4o", "* Estimated from default prices"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output misses %q:\n%s", want, text)
		}
	}
}

func TestQueryRejectsInvalidPageSize(t *testing.T) {
	f := &stubFetcher{handle: func(logquery.Directive) (*logquery.Result, error) {
		return &logquery.Result{}, nil
	}}
	a, _ := newTestApp(t, f, "")
	if err := a.run(context.Background(), []string{"query", "--key", "sk-test", "--page-size", "15"}); err == nil {
		t.Fatalf("expected page size 15 to be rejected")
	}
	if len(f.directives) != 0 {
		t.Fatalf("no request expected, got %d", len(f.directives))
	}
}

func TestQueryCursorPages(t *testing.T) {
	f := &stubFetcher{handle: func(d logquery.Directive) (*logquery.Result, error) {
		switch d.Cursor {
		case "":
			return &logquery.Result{Records: testLogs(1, 2), NextCursor: "c1", HasMore: true}, nil
		default:
			return &logquery.Result{Records: testLogs(3)}, nil
		}
	}}
	a, out := newTestApp(t, f, "")

	err := a.run(context.Background(), []string{"query", "--key", "sk-test", "--cursor", "--pages", "5", "--columns", "id,model_name"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(f.directives) != 2 {
		t.Fatalf("cursor requests = %d, want 2", len(f.directives))
	}
	if f.directives[1].Cursor != "c1" {
		t.Fatalf("second request cursor = %q", f.directives[1].Cursor)
	}
	if !strings.Contains(out.String(), "Showing: 3 · No more") {
		t.Fatalf("unexpected stats:\n%s", out.String())
	}
	if strings.Contains(out.String(), "QUOTA") {
		t.Fatalf("hidden column rendered:\n%s", out.String())
	}
}

func TestQueryMissingKey(t *testing.T) {
	f := &stubFetcher{handle: func(logquery.Directive) (*logquery.Result, error) {
		return &logquery.Result{}, nil
	}}
	a, _ := newTestApp(t, f, "")
	err := a.run(context.Background(), []string{"query", "--key", ""})
	if err == nil || !strings.Contains(err.Error(), "Please enter the token key") {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if len(f.directives) != 0 {
		t.Fatalf("no request expected, got %d", len(f.directives))
	}
}

func TestExportWritesFile(t *testing.T) {
	f := &stubFetcher{handle: func(d logquery.Directive) (*logquery.Result, error) {
		if d.PageSize == 1 {
			return &logquery.Result{Records: testLogs(1), Total: 3}, nil
		}
		return &logquery.Result{Records: testLogs(1, 2, 3), Total: 3}, nil
	}}
	a, out := newTestApp(t, f, "")
	dir := t.TempDir()

	if err := a.run(context.Background(), []string{"export", "--key", "sk-test", "--out", dir}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out.String(), "Exported 3 records") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	matches, err := filepath.Glob(filepath.Join(dir, "financial_logs_*.xlsx"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one xlsx file, got %v (%v)", matches, err)
	}
	raw, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer book.Close()
	rows, err := book.GetRows(book.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	// header, three records, blank, summary, grand total
	if len(rows) != 7 {
		t.Fatalf("rows = %d, want 7", len(rows))
	}
}

func TestExportConfirmation(t *testing.T) {
	probeOnly := func(d logquery.Directive) (*logquery.Result, error) {
		return &logquery.Result{Records: testLogs(1), Total: 60000}, nil
	}

	t.Run("declined without a terminal", func(t *testing.T) {
		f := &stubFetcher{handle: probeOnly}
		a, out := newTestApp(t, f, "")
		if err := a.run(context.Background(), []string{"export", "--key", "sk-test", "--out", t.TempDir()}); err != nil {
			t.Fatalf("declined export should not fail: %v", err)
		}
		if len(f.directives) != 1 {
			t.Fatalf("only the probe expected, got %d requests", len(f.directives))
		}
		if !strings.Contains(out.String(), "Export cancelled") {
			t.Fatalf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("interactive answer no", func(t *testing.T) {
		f := &stubFetcher{handle: probeOnly}
		a, out := newTestApp(t, f, "n\n")
		a.interactive = true
		if err := a.run(context.Background(), []string{"export", "--key", "sk-test", "--out", t.TempDir()}); err != nil {
			t.Fatalf("declined export should not fail: %v", err)
		}
		if !strings.Contains(out.String(), "60000 records match") {
			t.Fatalf("prompt missing:\n%s", out.String())
		}
		if len(f.directives) != 1 {
			t.Fatalf("only the probe expected, got %d requests", len(f.directives))
		}
	})
}

func TestConfirmAnswers(t *testing.T) {
	cases := map[string]bool{"y\n": true, "YES\n": true, " yes ": true, "n\n": false, "\n": false, "": false}
	for input, want := range cases {
		a, _ := newTestApp(t, &stubFetcher{}, input)
		if got := a.confirm("go?"); got != want {
			t.Fatalf("confirm(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestColumnsCommand(t *testing.T) {
	a, out := newTestApp(t, &stubFetcher{}, "")
	ctx := context.Background()

	if err := a.run(ctx, []string{"columns", "--show", "ip", "--hide", "quota"}); err != nil {
		t.Fatalf("columns: %v", err)
	}
	stored, err := model.LoadColumnVisibility(ctx, a.prefs)
	if err != nil {
		t.Fatalf("load columns: %v", err)
	}
	if !stored[model.ColumnIP] || stored[model.ColumnQuota] {
		t.Fatalf("unexpected stored columns %v", stored)
	}
	if !strings.Contains(out.String(), "ip") {
		t.Fatalf("columns not listed:\n%s", out.String())
	}

	if err := a.run(ctx, []string{"columns", "--show", "nope"}); err == nil {
		t.Fatalf("expected unknown column error")
	}
	if err := a.run(ctx, []string{"columns", "--all", "--none"}); err == nil {
		t.Fatalf("expected exclusive flag error")
	}

	if err := a.run(ctx, []string{"columns", "--reset"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	stored, _ = model.LoadColumnVisibility(ctx, a.prefs)
	if stored[model.ColumnIP] {
		t.Fatalf("reset kept ip visible")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" id, ,model_name ,")
	if len(got) != 2 || got[0] != "id" || got[1] != "model_name" {
		t.Fatalf("splitList = %q", got)
	}
}

func TestTSV(t *testing.T) {
	got := tsv([]string{"ID", "Model"}, [][]string{{"1", "gpt-4o"}})
	if got != "ID\tModel\n1\tgpt-4o" {
		t.Fatalf("tsv = %q", got)
	}
}
