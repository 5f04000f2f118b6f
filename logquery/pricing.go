package logquery

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v5"
	"github.com/Laisky/zap"
	"golang.org/x/sync/singleflight"

	"github.com/songquanpeng/finlogs/common/client"
	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/logger"
	"github.com/songquanpeng/finlogs/dto"
	"github.com/songquanpeng/finlogs/monitor"
)

const pricingCacheKey = "pricing"

// Pricing holds the ratios used for estimated prices.
type Pricing struct {
	GroupRatio map[string]float64
	Models     map[string]dto.PricingModel
}

// GroupMultiplier returns the ratio for group, or 1 when unknown.
func (p *Pricing) GroupMultiplier(group string) float64 {
	if p == nil {
		return 1
	}
	if r, ok := p.GroupRatio[group]; ok && r > 0 {
		return r
	}
	return 1
}

// Model returns the ratio pair for modelName when the backend published a usable one.
func (p *Pricing) Model(modelName string) (dto.PricingModel, bool) {
	if p == nil || modelName == "" {
		return dto.PricingModel{}, false
	}
	m, ok := p.Models[modelName]
	if !ok || m.ModelRatio <= 0 {
		return dto.PricingModel{}, false
	}
	return m, true
}

func newPricing(resp *dto.PricingResponse) *Pricing {
	p := &Pricing{
		GroupRatio: resp.GroupRatio,
		Models:     make(map[string]dto.PricingModel, len(resp.Data)),
	}
	if p.GroupRatio == nil {
		p.GroupRatio = map[string]float64{}
	}
	for _, m := range resp.Data {
		p.Models[m.ModelName] = m
	}
	return p
}

// PricingLoader fetches /api/pricing and caches the result.
type PricingLoader struct {
	getter client.Getter
	path   string
	cache  *gutils.ExpCache[*Pricing]
	group  singleflight.Group
}

// NewPricingLoader returns a loader whose cache entries live for ttl.
func NewPricingLoader(ctx context.Context, getter client.Getter, ttl time.Duration) *PricingLoader {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &PricingLoader{
		getter: getter,
		path:   config.PricingPath,
		cache:  gutils.NewExpCache[*Pricing](ctx, ttl),
	}
}

// Load returns the cached pricing or fetches it. Concurrent callers share one request.
func (l *PricingLoader) Load(ctx context.Context) (*Pricing, error) {
	if p, ok := l.cache.Load(pricingCacheKey); ok {
		return p, nil
	}

	v, err, _ := l.group.Do(pricingCacheKey, func() (any, error) {
		if p, ok := l.cache.Load(pricingCacheKey); ok {
			return p, nil
		}

		var resp dto.PricingResponse
		if err := l.getter.GetJSON(ctx, l.path, &resp); err != nil {
			return nil, errors.Wrap(err, "load pricing")
		}
		if !resp.Success {
			return nil, errors.Errorf("load pricing: %s", resp.Message)
		}

		p := newPricing(&resp)
		l.cache.Store(pricingCacheKey, p)
		return p, nil
	})
	if err != nil {
		monitor.RecordPricingLoad(false)
		return nil, err
	}
	monitor.RecordPricingLoad(true)
	return v.(*Pricing), nil
}

// LoadOrEmpty never fails: on error it logs and returns nil, which prices every group at 1.
func (l *PricingLoader) LoadOrEmpty(ctx context.Context) *Pricing {
	if l == nil {
		return nil
	}
	p, err := l.Load(ctx)
	if err != nil {
		logger.Logger.Warn("pricing unavailable, using default ratios", zap.Error(err))
		return nil
	}
	return p
}
