package hours

import (
	"context"
	"time"

	"member-chat-be/internal/entity"
	"member-chat-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const hoursCacheKey = "business_hours"

// Source fetches the schedule from the upstream chat backend.
type Source interface {
	FetchBusinessHours(ctx context.Context) (*entity.BusinessHours, error)
}

// Provider wraps a Source with a short-lived cache and the fail-closed
// fallback: if the schedule cannot be retrieved, chat is treated as closed
// (never open) and the hours carry the "default" source tag.
type Provider struct {
	source Source
	cache  *cache.Cache
	logger logger.ILogger
}

func NewProvider(source Source, ttl time.Duration, log logger.ILogger) *Provider {
	return &Provider{
		source: source,
		cache:  cache.New(ttl, 2*ttl),
		logger: log,
	}
}

func (p *Provider) Current(ctx context.Context) *entity.BusinessHours {
	if x, found := p.cache.Get(hoursCacheKey); found {
		return x.(*entity.BusinessHours)
	}

	h, err := p.source.FetchBusinessHours(ctx)
	if err != nil || h == nil {
		p.logger.Warn("BusinessHours", "Fetch failed, falling back to closed default", map[string]interface{}{
			"error": err,
		})
		return DefaultHours()
	}

	h.Source = entity.HoursSourceAPI
	p.cache.Set(hoursCacheKey, h, cache.DefaultExpiration)
	return h
}

// DefaultHours is the fail-safe schedule: not 24x7 and no open days, so the
// evaluator reports closed.
func DefaultHours() *entity.BusinessHours {
	return &entity.BusinessHours{
		Is24x7: false,
		Days:   nil,
		Source: entity.HoursSourceDefault,
	}
}
