package logquery

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/zap"

	"github.com/songquanpeng/finlogs/common/client"
	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/logger"
	"github.com/songquanpeng/finlogs/dto"
	"github.com/songquanpeng/finlogs/model"
	"github.com/songquanpeng/finlogs/monitor"
)

// Result is one page of logs plus the position metadata the backend returned.
type Result struct {
	Records    []model.Log
	Page       int
	PageSize   int
	Total      int
	Pages      int
	NextCursor string
	HasMore    bool
}

// Fetcher issues log queries against the backend.
type Fetcher struct {
	getter client.Getter
	path   string
}

// NewFetcher returns a Fetcher that sends requests through getter.
func NewFetcher(getter client.Getter) *Fetcher {
	return &Fetcher{getter: getter, path: config.LogQueryPath}
}

// Fetch validates q and issues exactly one GET for the slice described by d.
// A criteria failure returns *ValidationError without touching the network.
func (f *Fetcher) Fetch(ctx context.Context, q model.QueryCriteria, d Directive) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, NewValidationError(err)
	}

	mode := string(q.PaginationMode)
	if mode == "" {
		mode = string(model.PaginationOffset)
	}
	pathAndQuery := BuildRequestPath(f.path, q, d)

	start := time.Now()
	var resp dto.LogQueryResponse
	if err := f.getter.GetJSON(ctx, pathAndQuery, &resp); err != nil {
		monitor.RecordFetch(mode, false, 0, time.Since(start))
		logger.Logger.Warn("fetch logs",
			zap.String("mode", mode),
			zap.Int("page", d.Page),
			zap.Int("page_size", d.PageSize),
			zap.String("error", redactKey(err.Error(), q.TokenKey)))
		return nil, &TransportError{Err: err}
	}

	if !resp.Success {
		monitor.RecordFetch(mode, false, 0, time.Since(start))
		logger.Logger.Info("backend rejected log query",
			zap.String("mode", mode),
			zap.String("message", resp.Message))
		return nil, &ServerError{Message: resp.Message}
	}

	monitor.RecordFetch(mode, true, len(resp.Data), time.Since(start))
	result := &Result{
		Records:  resp.Data,
		Page:     resp.Page,
		PageSize: resp.PageSize,
		Total:    resp.Total,
		Pages:    resp.Pages,
		HasMore:  resp.HasMore,
	}
	if resp.NextCursor != nil {
		result.NextCursor = *resp.NextCursor
	}
	if result.Records == nil {
		result.Records = []model.Log{}
	}
	logger.Logger.Debug("fetched logs",
		zap.String("mode", mode),
		zap.Int("records", len(result.Records)),
		zap.Int("total", result.Total),
		zap.Bool("has_more", result.HasMore))
	return result, nil
}

// redactKey keeps the token key out of logs; transport errors embed the request URL.
func redactKey(msg, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(key), "***")
	return strings.ReplaceAll(msg, key, "***")
}
