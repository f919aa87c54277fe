package judge

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// Provider is one strategy for resolving solved-problem stats. Providers
// are pure lookups: they either return stats or an error, never partials.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, handle string) (*portfolio.JudgeStats, error)
}

// Chain evaluates providers in declaration order until one succeeds.
// Order matters: earlier providers carry richer data and are preferred, so
// evaluation is sequential-with-fallback, never first-wins.
type Chain struct {
	providers []Provider
	log       logger.Logger
}

func NewChain(log logger.Logger, providers ...Provider) service.SolvedStatsService {
	return &Chain{providers: providers, log: log}
}

// Fetch returns (nil, nil) when every provider fails: the handle may
// legitimately have no presence on the judge, so exhaustion is no data,
// not an error.
func (c *Chain) Fetch(ctx context.Context, handle string) (*portfolio.JudgeStats, error) {
	for _, p := range c.providers {
		stats, err := p.Fetch(ctx, handle)
		if err == nil {
			return stats, nil
		}
		c.log.Warn("judge provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.String("handle", handle),
			zap.Error(err),
		)
	}
	c.log.Warn("all judge providers failed", zap.String("handle", handle))
	return nil, nil
}
