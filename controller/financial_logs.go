package controller

import (
	"context"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/common/logger"
	"github.com/songquanpeng/finlogs/export"
	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/model"
	"github.com/songquanpeng/finlogs/monitor"
)

var (
	// ErrInvalidPageSize rejects sizes outside config.PageSizeOptions.
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrExportInProgress rejects a second export on the same view.
	ErrExportInProgress = errors.New("export already in progress")
)

// LogFetcher issues one log query.
type LogFetcher interface {
	Fetch(ctx context.Context, q model.QueryCriteria, d logquery.Directive) (*logquery.Result, error)
}

// PaginationState is the position of a view inside the result set.
type PaginationState struct {
	Mode     model.PaginationMode `json:"mode"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Total    int                  `json:"total"`
	Cursor   string               `json:"cursor,omitempty"`
	HasMore  bool                 `json:"has_more"`
}

// Deps are the collaborators of a FinancialLogs view.
type Deps struct {
	Fetcher     LogFetcher
	Pricing     *logquery.PricingLoader
	Preferences model.PreferenceStore
	Clipboard   Clipboard
	Translator  i18n.Translator
	Location    *time.Location
	Now         func() time.Time
}

// FinancialLogs is the state of one financial logs view.
// The mutex is never held while a request is in flight.
type FinancialLogs struct {
	mu sync.Mutex

	fetcher   LogFetcher
	pricing   *logquery.PricingLoader
	prefs     model.PreferenceStore
	clipboard Clipboard
	t         i18n.Translator
	loc       *time.Location
	now       func() time.Time

	form       FormState
	tokenKey   string
	pagination PaginationState
	records    []model.Log
	priced     *logquery.Pricing
	loading    bool
	lastError  string
	exporting  bool

	// seq numbers issued fetches; applied is the newest one whose response was used.
	seq     uint64
	applied uint64

	columns model.ColumnVisibility
	compact bool
}

// NewFinancialLogs returns an unmounted view.
func NewFinancialLogs(deps Deps) *FinancialLogs {
	v := &FinancialLogs{
		fetcher:   deps.Fetcher,
		pricing:   deps.Pricing,
		prefs:     deps.Preferences,
		clipboard: deps.Clipboard,
		t:         deps.Translator,
		loc:       deps.Location,
		now:       deps.Now,
		form:      FormInitValues(),
		tokenKey:  config.TokenKey,
		pagination: PaginationState{
			Mode:     model.PaginationOffset,
			Page:     1,
			PageSize: config.DefaultPageSize,
		},
		columns: model.DefaultColumnVisibility(),
	}
	if v.prefs == nil {
		v.prefs = model.NewMemoryPreferenceStore()
	}
	if v.loc == nil {
		v.loc = config.Location()
	}
	if v.now == nil {
		v.now = time.Now
	}
	return v
}

// Mount restores persisted preferences and loads the first page when a token key is known.
func (v *FinancialLogs) Mount(ctx context.Context) error {
	v.RestorePreferences(ctx)

	v.mu.Lock()
	hasKey := v.tokenKey != "" || v.form.Key != ""
	v.mu.Unlock()

	if !hasKey {
		return nil
	}
	return v.Refresh(ctx)
}

// RestorePreferences reads the persisted column set, page size and compact flag.
func (v *FinancialLogs) RestorePreferences(ctx context.Context) {
	columns, err := model.LoadColumnVisibility(ctx, v.prefs)
	if err != nil {
		logger.Logger.Warn("restore column visibility", zap.Error(err))
	}
	pageSize := model.LoadPageSize(ctx, v.prefs)
	compact := model.LoadCompactMode(ctx, v.prefs)

	v.mu.Lock()
	v.columns = columns
	v.pagination.PageSize = pageSize
	v.compact = compact
	v.mu.Unlock()
}

// Preset positions an idle view before its first load. A zero pageSize keeps the
// current one; a non-zero one is validated and persisted.
func (v *FinancialLogs) Preset(ctx context.Context, mode model.PaginationMode, pageSize int) error {
	if pageSize != 0 {
		if !config.ValidPageSize(pageSize) {
			return ErrInvalidPageSize
		}
		if err := model.SavePageSize(ctx, v.prefs, pageSize); err != nil {
			logger.Logger.Warn("persist page size", zap.Error(err))
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if mode != "" {
		v.pagination.Mode = mode
	}
	if pageSize != 0 {
		v.pagination.PageSize = pageSize
	}
	v.pagination.Page = 1
	v.pagination.Cursor = ""
	v.pagination.HasMore = false
	return nil
}

// SetTranslator switches the language of labels and messages.
func (v *FinancialLogs) SetTranslator(t i18n.Translator) {
	v.mu.Lock()
	v.t = t
	v.mu.Unlock()
}

// SetFilters replaces the form values and the dedicated token key. It does not fetch.
func (v *FinancialLogs) SetFilters(form FormState, tokenKey string) {
	v.mu.Lock()
	v.form = form
	v.tokenKey = tokenKey
	v.mu.Unlock()
}

// Refresh goes back to the first page with the current filters.
func (v *FinancialLogs) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.pagination.Page = 1
	v.pagination.Cursor = ""
	v.pagination.HasMore = false
	d := logquery.Directive{Page: 1, PageSize: v.pagination.PageSize}
	v.mu.Unlock()

	return v.load(ctx, d, false)
}

// ResetForm restores the initial form values and reloads.
func (v *FinancialLogs) ResetForm(ctx context.Context) error {
	v.mu.Lock()
	v.form = FormInitValues()
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// GoToPage loads page n in offset mode. It is a no-op in cursor mode.
func (v *FinancialLogs) GoToPage(ctx context.Context, n int) error {
	v.mu.Lock()
	if v.pagination.Mode != model.PaginationOffset {
		v.mu.Unlock()
		return nil
	}
	if n < 1 {
		n = 1
	}
	d := logquery.Directive{Page: n, PageSize: v.pagination.PageSize}
	v.mu.Unlock()

	return v.load(ctx, d, false)
}

// ChangePageSize persists size and reloads from the first page.
func (v *FinancialLogs) ChangePageSize(ctx context.Context, size int) error {
	if !config.ValidPageSize(size) {
		return ErrInvalidPageSize
	}
	if err := model.SavePageSize(ctx, v.prefs, size); err != nil {
		logger.Logger.Warn("persist page size", zap.Error(err))
	}

	v.mu.Lock()
	v.pagination.PageSize = size
	v.pagination.Page = 1
	v.pagination.Cursor = ""
	v.pagination.HasMore = false
	d := logquery.Directive{Page: 1, PageSize: size}
	v.mu.Unlock()

	return v.load(ctx, d, false)
}

// LoadNext appends the next cursor page. It does nothing unless the view is in
// cursor mode, idle, and the last response reported more records.
func (v *FinancialLogs) LoadNext(ctx context.Context) error {
	v.mu.Lock()
	if v.pagination.Mode != model.PaginationCursor || !v.pagination.HasMore || v.loading {
		v.mu.Unlock()
		return nil
	}
	d := logquery.Directive{PageSize: v.pagination.PageSize, Cursor: v.pagination.Cursor}
	v.mu.Unlock()

	return v.load(ctx, d, true)
}

// SetPaginationMode switches between offset and cursor paging and reloads.
// Selecting the current mode changes nothing.
func (v *FinancialLogs) SetPaginationMode(ctx context.Context, mode model.PaginationMode) error {
	v.mu.Lock()
	if v.pagination.Mode == mode {
		v.mu.Unlock()
		return nil
	}
	v.pagination.Mode = mode
	v.pagination.Page = 1
	v.pagination.Cursor = ""
	v.pagination.HasMore = false
	v.pagination.Total = 0
	v.records = nil
	d := logquery.Directive{Page: 1, PageSize: v.pagination.PageSize}
	v.mu.Unlock()

	return v.load(ctx, d, false)
}

// load runs one fetch and applies it unless a newer response was already applied.
func (v *FinancialLogs) load(ctx context.Context, d logquery.Directive, appendRecords bool) error {
	v.mu.Lock()
	q, err := BuildQuery(v.form, v.tokenKey, v.pagination.Mode, v.now(), v.loc)
	if err != nil {
		v.lastError = logquery.UserMessage(err, v.t)
		v.mu.Unlock()
		return err
	}
	v.seq++
	seq := v.seq
	v.loading = true
	v.mu.Unlock()

	res, err := v.fetcher.Fetch(ctx, q, d)
	var pricing *logquery.Pricing
	if err == nil && v.pricing != nil {
		pricing = v.pricing.LoadOrEmpty(ctx)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq == v.seq {
		v.loading = false
	}
	if seq <= v.applied {
		monitor.RecordStaleResponse()
		logger.Logger.Debug("drop stale log response",
			zap.Uint64("seq", seq), zap.Uint64("applied", v.applied))
		return nil
	}
	v.applied = seq

	if err != nil {
		v.records = nil
		v.pagination.Total = 0
		v.lastError = logquery.UserMessage(err, v.t)
		return err
	}
	v.lastError = ""
	v.priced = pricing

	if v.pagination.Mode == model.PaginationCursor {
		if appendRecords {
			v.records = append(v.records, res.Records...)
		} else {
			v.records = res.Records
		}
		v.pagination.Cursor = res.NextCursor
		v.pagination.HasMore = res.HasMore
		v.pagination.Total = res.Total
		return nil
	}

	v.records = res.Records
	v.pagination.Total = res.Total
	v.pagination.Page = d.Page
	if res.Page > 0 {
		v.pagination.Page = res.Page
	}
	return nil
}

// View is a point-in-time copy of a FinancialLogs view.
type View struct {
	Form            FormState                `json:"form"`
	TokenKeySet     bool                     `json:"token_key_set"`
	Pagination      PaginationState          `json:"pagination"`
	Records         []logquery.DisplayRecord `json:"records"`
	Columns         model.ColumnVisibility   `json:"columns"`
	VisibleColumns  []string                 `json:"visible_columns"`
	PageSizeOptions []int                    `json:"page_size_options"`
	Compact         bool                     `json:"compact"`
	Loading         bool                     `json:"loading"`
	Exporting       bool                     `json:"exporting"`
	Stats           string                   `json:"stats"`
	Error           string                   `json:"error,omitempty"`
}

// Snapshot renders the current state.
func (v *FinancialLogs) Snapshot() View {
	v.mu.Lock()
	defer v.mu.Unlock()

	fc := logquery.NewFormatContext(v.priced, v.t)
	fc.Location = v.loc
	return View{
		Form:            v.form,
		TokenKeySet:     v.tokenKey != "",
		Pagination:      v.pagination,
		Records:         logquery.Format(v.records, fc),
		Columns:         v.columns.Clone(),
		VisibleColumns:  v.columns.Visible(),
		PageSizeOptions: config.PageSizeOptions,
		Compact:         v.compact,
		Loading:         v.loading,
		Exporting:       v.exporting,
		Stats:           v.statsLocked(),
		Error:           v.lastError,
	}
}

func (v *FinancialLogs) statsLocked() string {
	if v.pagination.Mode == model.PaginationCursor {
		more := v.t.T("No more")
		if v.pagination.HasMore {
			more = v.t.T("Has more")
		}
		return v.t.T("Showing: {{count}}", "count", len(v.records)) + " · " + more
	}
	return v.t.T("Total: {{count}}", "count", v.pagination.Total)
}

// SetColumnVisible shows or hides one column and persists the map.
func (v *FinancialLogs) SetColumnVisible(ctx context.Context, column string, visible bool) error {
	if !model.IsKnownColumn(column) {
		return errors.Errorf("unknown column %q", column)
	}
	v.mu.Lock()
	v.columns[column] = visible
	snapshot := v.columns.Clone()
	v.mu.Unlock()

	return v.persistColumns(ctx, snapshot)
}

// SelectAllColumns shows or hides every column.
func (v *FinancialLogs) SelectAllColumns(ctx context.Context, visible bool) error {
	v.mu.Lock()
	for _, id := range model.ColumnOrder {
		v.columns[id] = visible
	}
	snapshot := v.columns.Clone()
	v.mu.Unlock()

	return v.persistColumns(ctx, snapshot)
}

// ResetColumns restores the default column set.
func (v *FinancialLogs) ResetColumns(ctx context.Context) error {
	v.mu.Lock()
	v.columns = model.DefaultColumnVisibility()
	snapshot := v.columns.Clone()
	v.mu.Unlock()

	return v.persistColumns(ctx, snapshot)
}

func (v *FinancialLogs) persistColumns(ctx context.Context, columns model.ColumnVisibility) error {
	if err := model.SaveColumnVisibility(ctx, v.prefs, columns); err != nil {
		logger.Logger.Warn("persist column visibility", zap.Error(err))
		return err
	}
	return nil
}

// SetCompactMode toggles dense rows and persists the choice.
func (v *FinancialLogs) SetCompactMode(ctx context.Context, compact bool) error {
	v.mu.Lock()
	v.compact = compact
	v.mu.Unlock()

	if err := model.SaveCompactMode(ctx, v.prefs, compact); err != nil {
		logger.Logger.Warn("persist compact mode", zap.Error(err))
		return err
	}
	return nil
}

// CopyNotice is the outcome of a copy request.
type CopyNotice struct {
	Copied  bool   `json:"copied"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

// CopyText copies text through cb, or through the view's own clipboard when cb is nil.
func (v *FinancialLogs) CopyText(ctx context.Context, cb Clipboard, text string) CopyNotice {
	v.mu.Lock()
	t := v.t
	if cb == nil {
		cb = v.clipboard
	}
	v.mu.Unlock()

	if cb == nil {
		return CopyNotice{Text: text, Message: t.T("Cannot copy to clipboard, please copy manually")}
	}
	if err := cb.Copy(ctx, text); err != nil {
		logger.Logger.Debug("copy to clipboard", zap.Error(err))
		return CopyNotice{Text: text, Message: t.T("Cannot copy to clipboard, please copy manually")}
	}
	return CopyNotice{Copied: true, Text: text, Message: t.T("Copied: {{text}}", "text", text)}
}

// Export runs a bulk export with the current filters. confirm is asked when the
// record count exceeds the confirmation threshold.
func (v *FinancialLogs) Export(ctx context.Context, confirm func(ctx context.Context, total int) bool) (*export.Result, error) {
	v.mu.Lock()
	if v.exporting {
		v.mu.Unlock()
		return nil, ErrExportInProgress
	}
	q, err := BuildQuery(v.form, v.tokenKey, model.PaginationOffset, v.now(), v.loc)
	if err != nil {
		v.mu.Unlock()
		return nil, err
	}
	v.exporting = true
	t := v.t
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.exporting = false
		v.mu.Unlock()
	}()

	e := export.NewExporter(v.fetcher, t)
	e.Pricing = v.pricing
	e.Confirm = confirm
	e.Location = v.loc
	e.Now = v.now
	return e.Export(ctx, q)
}

// Translator returns the view's current translator.
func (v *FinancialLogs) Translator() i18n.Translator {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.t
}
