package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/minishop/pkg/logger"
)

// CartEvictionJobName is the registry and metrics name of the idle cart sweep.
const CartEvictionJobName = "cart-idle-eviction"

type idleEvictor interface {
	EvictIdle(ctx context.Context, cutoff time.Time) int
}

// CartEvictionJobParams configure the idle cart sweep.
type CartEvictionJobParams struct {
	Logger  *logger.Logger
	Carts   idleEvictor
	IdleTTL time.Duration
	Clock   func() time.Time
}

type cartEvictionJob struct {
	logg  *logger.Logger
	carts idleEvictor
	ttl   time.Duration
	now   func() time.Time
}

// NewCartEvictionJob builds the job that drops carts idle for longer than IdleTTL.
func NewCartEvictionJob(params CartEvictionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.IdleTTL <= 0 {
		return nil, fmt.Errorf("idle ttl must be positive")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &cartEvictionJob{
		logg:  params.Logger,
		carts: params.Carts,
		ttl:   params.IdleTTL,
		now:   clock,
	}, nil
}

func (j *cartEvictionJob) Name() string { return CartEvictionJobName }

func (j *cartEvictionJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cutoff := j.now().Add(-j.ttl)
	evicted := j.carts.EvictIdle(ctx, cutoff)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"evicted": evicted,
		"cutoff":  cutoff.UTC().Format(time.RFC3339),
	})
	j.logg.Info(logCtx, "cart.idle_evicted")
	return nil
}
