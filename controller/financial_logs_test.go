package controller

import (
	"context"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/model"
)

func newTestView(f LogFetcher, prefs model.PreferenceStore) *FinancialLogs {
	v := NewFinancialLogs(Deps{
		Fetcher:     f,
		Preferences: prefs,
		Translator:  i18n.NewTranslator("en"),
		Location:    time.UTC,
		Now:         func() time.Time { return testNow },
	})
	v.SetFilters(FormInitValues(), "sk-test")
	return v
}

func recordIds(v *FinancialLogs) []int {
	var ids []int
	for _, r := range v.Snapshot().Records {
		ids = append(ids, r.Key)
	}
	return ids
}

func TestOffsetPagination(t *testing.T) {
	Convey("offset pagination", t, func() {
		ctx := context.Background()
		f := &stubFetcher{handle: func(_ model.QueryCriteria, d logquery.Directive) (*logquery.Result, error) {
			return &logquery.Result{Records: logsWithIds(d.Page), Page: d.Page, PageSize: d.PageSize, Total: 95}, nil
		}}
		v := newTestView(f, nil)

		Convey("refresh loads the first page", func() {
			So(v.Refresh(ctx), ShouldBeNil)
			So(f.last(), ShouldResemble, logquery.Directive{Page: 1, PageSize: 10})
			snap := v.Snapshot()
			So(snap.Pagination.Total, ShouldEqual, 95)
			So(snap.Stats, ShouldEqual, "Total: 95")
			So(snap.Loading, ShouldBeFalse)
		})

		Convey("go to page keeps the page size", func() {
			So(v.GoToPage(ctx, 3), ShouldBeNil)
			So(f.last(), ShouldResemble, logquery.Directive{Page: 3, PageSize: 10})
			So(v.Snapshot().Pagination.Page, ShouldEqual, 3)
			So(recordIds(v), ShouldResemble, []int{3})
		})

		Convey("changing the page size returns to page one and persists", func() {
			prefs := model.NewMemoryPreferenceStore()
			v := newTestView(f, prefs)
			So(v.GoToPage(ctx, 4), ShouldBeNil)
			So(v.ChangePageSize(ctx, 40), ShouldBeNil)
			So(f.last(), ShouldResemble, logquery.Directive{Page: 1, PageSize: 40})
			So(model.LoadPageSize(ctx, prefs), ShouldEqual, 40)
		})

		Convey("invalid page sizes are rejected without a request", func() {
			n := f.count()
			So(errors.Is(v.ChangePageSize(ctx, 15), ErrInvalidPageSize), ShouldBeTrue)
			So(f.count(), ShouldEqual, n)
		})

		Convey("load next does nothing in offset mode", func() {
			So(v.LoadNext(ctx), ShouldBeNil)
			So(f.count(), ShouldEqual, 0)
		})
	})
}

func TestCursorPagination(t *testing.T) {
	Convey("cursor pagination", t, func() {
		ctx := context.Background()
		f := &stubFetcher{handle: func(_ model.QueryCriteria, d logquery.Directive) (*logquery.Result, error) {
			switch d.Cursor {
			case "":
				return &logquery.Result{Records: logsWithIds(1, 2), NextCursor: "c1", HasMore: true}, nil
			case "c1":
				return &logquery.Result{Records: logsWithIds(3), NextCursor: "", HasMore: false}, nil
			}
			return nil, errors.New("unexpected cursor")
		}}
		v := newTestView(f, nil)
		So(v.SetPaginationMode(ctx, model.PaginationCursor), ShouldBeNil)
		So(f.last(), ShouldResemble, logquery.Directive{Page: 1, PageSize: 10})

		Convey("load next appends and follows the cursor", func() {
			So(v.LoadNext(ctx), ShouldBeNil)
			So(f.last().Cursor, ShouldEqual, "c1")
			So(recordIds(v), ShouldResemble, []int{1, 2, 3})

			snap := v.Snapshot()
			So(snap.Pagination.HasMore, ShouldBeFalse)
			So(snap.Stats, ShouldEqual, "Showing: 3 · No more")

			n := f.count()
			So(v.LoadNext(ctx), ShouldBeNil)
			So(f.count(), ShouldEqual, n)
		})

		Convey("refresh drops the cursor", func() {
			So(v.LoadNext(ctx), ShouldBeNil)
			So(v.Refresh(ctx), ShouldBeNil)
			So(f.last().Cursor, ShouldEqual, "")
			So(recordIds(v), ShouldResemble, []int{1, 2})
			So(v.Snapshot().Pagination.Cursor, ShouldEqual, "c1")
		})

		Convey("selecting the same mode again is a no-op", func() {
			n := f.count()
			So(v.SetPaginationMode(ctx, model.PaginationCursor), ShouldBeNil)
			So(f.count(), ShouldEqual, n)
		})

		Convey("switching back resets position", func() {
			So(v.SetPaginationMode(ctx, model.PaginationOffset), ShouldBeNil)
			snap := v.Snapshot()
			So(snap.Pagination.Cursor, ShouldEqual, "")
			So(snap.Pagination.HasMore, ShouldBeFalse)
			So(snap.Pagination.Page, ShouldEqual, 1)
		})
	})
}

func TestFetchFailures(t *testing.T) {
	Convey("a failed fetch clears records but keeps position", t, func() {
		ctx := context.Background()
		fail := false
		f := &stubFetcher{handle: func(_ model.QueryCriteria, d logquery.Directive) (*logquery.Result, error) {
			if fail {
				return nil, &logquery.TransportError{Err: errors.New("refused")}
			}
			return &logquery.Result{Records: logsWithIds(1), Page: d.Page, Total: 30}, nil
		}}
		v := newTestView(f, nil)
		So(v.Refresh(ctx), ShouldBeNil)

		fail = true
		err := v.GoToPage(ctx, 2)
		So(errors.Is(err, logquery.ErrFetchFailed), ShouldBeTrue)

		snap := v.Snapshot()
		So(snap.Records, ShouldBeEmpty)
		So(snap.Pagination.Total, ShouldEqual, 0)
		So(snap.Pagination.Page, ShouldEqual, 1)
		So(snap.Error, ShouldEqual, "Failed to load logs, please retry")
		So(f.count(), ShouldEqual, 2)
	})

	Convey("a server error on a page jump keeps the active page", t, func() {
		ctx := context.Background()
		f := &stubFetcher{handle: func(_ model.QueryCriteria, d logquery.Directive) (*logquery.Result, error) {
			if d.Page == 3 {
				return nil, &logquery.ServerError{Message: "quota table locked"}
			}
			return &logquery.Result{Records: logsWithIds(d.Page), Page: d.Page, Total: 95}, nil
		}}
		v := newTestView(f, nil)
		So(v.GoToPage(ctx, 2), ShouldBeNil)
		So(v.Snapshot().Pagination.Page, ShouldEqual, 2)

		var serr *logquery.ServerError
		So(errors.As(v.GoToPage(ctx, 3), &serr), ShouldBeTrue)
		snap := v.Snapshot()
		So(snap.Pagination.Page, ShouldEqual, 2)
		So(snap.Pagination.PageSize, ShouldEqual, 10)
		So(snap.Records, ShouldBeEmpty)
		So(snap.Error, ShouldEqual, "quota table locked")
	})

	Convey("a successful jump falls back to the requested page when the server omits it", t, func() {
		f := &stubFetcher{handle: func(model.QueryCriteria, logquery.Directive) (*logquery.Result, error) {
			return &logquery.Result{Records: logsWithIds(9), Total: 95}, nil
		}}
		v := newTestView(f, nil)
		So(v.GoToPage(context.Background(), 4), ShouldBeNil)
		So(v.Snapshot().Pagination.Page, ShouldEqual, 4)
	})

	Convey("a missing key sends nothing", t, func() {
		f := &stubFetcher{handle: func(model.QueryCriteria, logquery.Directive) (*logquery.Result, error) {
			return &logquery.Result{}, nil
		}}
		v := newTestView(f, nil)
		v.SetFilters(FormInitValues(), "")

		var verr *logquery.ValidationError
		So(errors.As(v.Refresh(context.Background()), &verr), ShouldBeTrue)
		So(f.count(), ShouldEqual, 0)
		So(v.Snapshot().Error, ShouldEqual, "Please enter the token key")
	})
}

func TestStaleResponsesAreDropped(t *testing.T) {
	Convey("an older response settling last does not overwrite a newer one", t, func() {
		ctx := context.Background()
		release := make(chan struct{})
		f := &stubFetcher{handle: func(_ model.QueryCriteria, d logquery.Directive) (*logquery.Result, error) {
			if d.Page == 1 {
				<-release
			}
			return &logquery.Result{Records: logsWithIds(d.Page), Page: d.Page, Total: 50}, nil
		}}
		v := newTestView(f, nil)

		done := make(chan error, 1)
		go func() { done <- v.Refresh(ctx) }()
		for f.count() == 0 {
			time.Sleep(time.Millisecond)
		}

		So(v.GoToPage(ctx, 2), ShouldBeNil)
		So(recordIds(v), ShouldResemble, []int{2})

		close(release)
		So(<-done, ShouldBeNil)
		So(recordIds(v), ShouldResemble, []int{2})
		So(v.Snapshot().Pagination.Page, ShouldEqual, 2)
		So(v.Snapshot().Loading, ShouldBeFalse)
	})
}

func TestMountRestoresPreferences(t *testing.T) {
	Convey("mount reads persisted preferences", t, func() {
		ctx := context.Background()
		prefs := model.NewMemoryPreferenceStore()
		So(model.SavePageSize(ctx, prefs, 20), ShouldBeNil)
		So(model.SaveCompactMode(ctx, prefs, true), ShouldBeNil)
		So(prefs.Set(ctx, model.PreferenceKeyColumns, "{not json"), ShouldBeNil)

		f := &stubFetcher{handle: func(model.QueryCriteria, logquery.Directive) (*logquery.Result, error) {
			return &logquery.Result{}, nil
		}}
		v := newTestView(f, prefs)
		So(v.Mount(ctx), ShouldBeNil)

		snap := v.Snapshot()
		So(snap.Pagination.PageSize, ShouldEqual, 20)
		So(snap.Compact, ShouldBeTrue)
		So(snap.Columns, ShouldResemble, model.DefaultColumnVisibility())
		So(f.last(), ShouldResemble, logquery.Directive{Page: 1, PageSize: 20})
	})
}

func TestColumnsAndCompact(t *testing.T) {
	Convey("column changes are persisted", t, func() {
		ctx := context.Background()
		prefs := model.NewMemoryPreferenceStore()
		v := newTestView(&stubFetcher{}, prefs)

		So(v.SetColumnVisible(ctx, model.ColumnIP, true), ShouldBeNil)
		stored, err := model.LoadColumnVisibility(ctx, prefs)
		So(err, ShouldBeNil)
		So(stored[model.ColumnIP], ShouldBeTrue)

		So(v.SetColumnVisible(ctx, "nope", true), ShouldNotBeNil)

		So(v.SelectAllColumns(ctx, false), ShouldBeNil)
		So(v.Snapshot().VisibleColumns, ShouldBeEmpty)

		So(v.ResetColumns(ctx), ShouldBeNil)
		stored, err = model.LoadColumnVisibility(ctx, prefs)
		So(err, ShouldBeNil)
		So(stored, ShouldResemble, model.DefaultColumnVisibility())

		So(v.SetCompactMode(ctx, true), ShouldBeNil)
		So(model.LoadCompactMode(ctx, prefs), ShouldBeTrue)
	})
}

type failingClipboard struct{}

func (failingClipboard) Copy(context.Context, string) error { return errors.New("no tty") }

func TestCopyText(t *testing.T) {
	Convey("copy reports success or a manual-copy notice", t, func() {
		ctx := context.Background()
		v := newTestView(&stubFetcher{}, nil)

		cb := &deferredClipboard{}
		notice := v.CopyText(ctx, cb, "req-123")
		So(notice.Copied, ShouldBeTrue)
		So(cb.text, ShouldEqual, "req-123")
		So(notice.Message, ShouldEqual, "Copied: req-123")

		notice = v.CopyText(ctx, failingClipboard{}, "req-123")
		So(notice.Copied, ShouldBeFalse)
		So(notice.Text, ShouldEqual, "req-123")

		notice = v.CopyText(ctx, nil, "x")
		So(notice.Copied, ShouldBeFalse)
	})
}
