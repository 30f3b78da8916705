package cron

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/minishop/internal/cart"
	"github.com/angelmondragon/minishop/internal/catalog"
	"github.com/angelmondragon/minishop/pkg/logger"
)

func TestNewCartEvictionJobValidates(t *testing.T) {
	carts, err := cart.NewService(cart.ServiceParams{Products: catalog.Default()})
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	cases := []CartEvictionJobParams{
		{Carts: carts, IdleTTL: time.Minute},
		{Logger: logger.Nop(), IdleTTL: time.Minute},
		{Logger: logger.Nop(), Carts: carts},
	}
	for i, params := range cases {
		if _, err := NewCartEvictionJob(params); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestCartEvictionJobEvictsOnlyIdleCarts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	carts, err := cart.NewService(cart.ServiceParams{Products: catalog.Default(), Clock: clock})
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	ctx := context.Background()
	if _, err := carts.AddItem(ctx, "idle", "1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	now = now.Add(2 * time.Hour)
	if _, err := carts.AddItem(ctx, "active", "2", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	job, err := NewCartEvictionJob(CartEvictionJobParams{
		Logger:  logger.Nop(),
		Carts:   carts,
		IdleTTL: time.Hour,
		Clock:   clock,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if job.Name() != CartEvictionJobName {
		t.Fatalf("unexpected name %q", job.Name())
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := len(carts.Get(ctx, "idle").Items); got != 0 {
		t.Fatalf("expected idle cart evicted, has %d items", got)
	}
	if got := len(carts.Get(ctx, "active").Items); got != 1 {
		t.Fatalf("expected active cart kept, has %d items", got)
	}
}
