// Package export assembles every record matching a query into an xlsx workbook.
package export

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/common/logger"
	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/model"
	"github.com/songquanpeng/finlogs/monitor"
)

// Fetcher is the subset of logquery.Fetcher the exporter needs.
type Fetcher interface {
	Fetch(ctx context.Context, q model.QueryCriteria, d logquery.Directive) (*logquery.Result, error)
}

// Exporter runs probe, confirmation, fetch and assembly for one export at a time.
type Exporter struct {
	Fetcher Fetcher
	// Pricing is optional; without it estimated prices use multiplier 1.
	Pricing *logquery.PricingLoader
	// Confirm is asked when the total exceeds ConfirmThreshold. nil declines.
	Confirm func(ctx context.Context, total int) bool
	// Progress observes batch advancement only.
	Progress func(batch, total int)

	ConfirmThreshold int
	SingleShotLimit  int
	BatchSize        int
	Lightweight      bool

	T        i18n.Translator
	Location *time.Location
	Label    string
	Now      func() time.Time
}

// NewExporter returns an Exporter using the configured thresholds.
func NewExporter(f Fetcher, t i18n.Translator) *Exporter {
	return &Exporter{
		Fetcher:          f,
		ConfirmThreshold: config.ExportConfirmThreshold,
		SingleShotLimit:  config.ExportSingleShotLimit,
		BatchSize:        config.ExportBatchSize,
		T:                t,
		Location:         config.Location(),
		Label:            config.ExportLabel,
		Now:              time.Now,
	}
}

// Export fetches every record matching q and assembles the workbook rows.
// Pagination mode is forced to offset because batches are addressed by page.
func (e *Exporter) Export(ctx context.Context, q model.QueryCriteria) (*Result, error) {
	q.PaginationMode = model.PaginationOffset
	lg := logger.Logger.With(zap.Int("type", q.Type), zap.String("model_name", q.ModelName))

	probe, err := e.Fetcher.Fetch(ctx, q, logquery.Directive{Page: 1, PageSize: 1})
	if err != nil {
		monitor.RecordExport("error", 0)
		return nil, errors.Wrap(err, "probe export size")
	}
	total := probe.Total
	if total <= 0 {
		monitor.RecordExport("no_data", 0)
		return nil, ErrNoData
	}

	if total > e.ConfirmThreshold {
		if e.Confirm == nil || !e.Confirm(ctx, total) {
			lg.Info("export declined", zap.Int("total", total))
			monitor.RecordExport("declined", 0)
			return nil, ErrExportDeclined
		}
	}

	records, err := e.fetchAll(ctx, q, total)
	if err != nil {
		monitor.RecordExport("error", 0)
		return nil, err
	}

	var pricing *logquery.Pricing
	if e.Pricing != nil {
		pricing = e.Pricing.LoadOrEmpty(ctx)
	}
	fc := logquery.NewFormatContext(pricing, e.T)
	if e.Location != nil {
		fc.Location = e.Location
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	res := buildResult(logquery.Format(records, fc), e.T)
	res.Filename = Filename(e.T.T(e.label()), now().In(fc.Location))

	lg.Info("export assembled", zap.Int("total", total), zap.Int("records", len(records)))
	monitor.RecordExport("success", len(records))
	return res, nil
}

func (e *Exporter) label() string {
	if e.Label == "" {
		return config.ExportLabel
	}
	return e.Label
}

func (e *Exporter) fetchAll(ctx context.Context, q model.QueryCriteria, total int) ([]model.Log, error) {
	if total <= e.SingleShotLimit || e.BatchSize <= 0 {
		res, err := e.Fetcher.Fetch(ctx, q, logquery.Directive{Page: 1, PageSize: total, Lightweight: e.Lightweight})
		if err != nil {
			return nil, errors.Wrap(err, "fetch export records")
		}
		return res.Records, nil
	}

	batches := (total + e.BatchSize - 1) / e.BatchSize
	records := make([]model.Log, 0, total)
	for batch := 1; batch <= batches; batch++ {
		if err := ctx.Err(); err != nil {
			return nil, &BatchFailure{Index: batch, Total: batches, Err: err}
		}
		e.reportProgress(batch, batches)

		res, err := e.Fetcher.Fetch(ctx, q, logquery.Directive{Page: batch, PageSize: e.BatchSize, Lightweight: e.Lightweight})
		if err != nil {
			logger.Logger.Warn("export batch failed",
				zap.Int("batch", batch), zap.Int("batches", batches), zap.Error(err))
			return nil, &BatchFailure{Index: batch, Total: batches, Err: err}
		}
		records = append(records, res.Records...)
	}
	return records, nil
}

func (e *Exporter) reportProgress(batch, total int) {
	logger.Logger.Info("exporting batch", zap.Int("batch", batch), zap.Int("batches", total))
	monitor.SetExportProgress(batch, total)
	if e.Progress != nil {
		e.Progress(batch, total)
	}
}
