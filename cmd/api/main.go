package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/minishop/api"
	"github.com/angelmondragon/minishop/api/routes"
	"github.com/angelmondragon/minishop/internal/cart"
	"github.com/angelmondragon/minishop/internal/catalog"
	"github.com/angelmondragon/minishop/internal/checkout"
	"github.com/angelmondragon/minishop/internal/cron"
	"github.com/angelmondragon/minishop/pkg/config"
	"github.com/angelmondragon/minishop/pkg/instance"
	"github.com/angelmondragon/minishop/pkg/logger"
	"github.com/angelmondragon/minishop/pkg/metrics"
	"github.com/angelmondragon/minishop/pkg/redis"
)

const serviceName = "minishop-api"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"instance": instance.GetID(), "env": cfg.App.Env})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api exited with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(registry)

	products := catalog.Default()
	logg.Info(logg.WithField(ctx, "product_count", products.Len()), "catalog.loaded")
	carts, err := cart.NewService(cart.ServiceParams{Products: products, Metrics: cartMetrics})
	if err != nil {
		return err
	}
	checkouts, err := checkout.NewService(checkout.ServiceParams{
		Carts:        carts,
		VerifyTotals: cfg.Checkout.VerifyTotals,
		Metrics:      cartMetrics,
		Logger:       logg,
	})
	if err != nil {
		return err
	}

	params := routes.Params{
		Config:   cfg,
		Logger:   logg,
		Catalog:  products,
		Carts:    carts,
		Checkout: checkouts,
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		params.Idempotency = redisClient
		params.Redis = redisClient
	} else {
		logg.Info(ctx, "redis not configured; idempotency replay disabled")
	}

	server := api.NewServer(cfg, routes.NewRouter(params))
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logg.Info(logg.WithField(groupCtx, "addr", server.Addr), "api.listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		logg.Info(shutdownCtx, "api.shutting_down")
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Cart.EvictionEnabled() {
		sweeper, err := newSweeper(cfg, logg, carts, redisClient, registry)
		if err != nil {
			return err
		}
		group.Go(func() error {
			return sweeper.Run(groupCtx)
		})
	}

	return group.Wait()
}

func newSweeper(cfg *config.Config, logg *logger.Logger, carts cart.Service, redisClient *redis.Client, reg prometheus.Registerer) (*cron.Service, error) {
	job, err := cron.NewCartEvictionJob(cron.CartEvictionJobParams{
		Logger:  logg,
		Carts:   carts,
		IdleTTL: cfg.Cart.IdleTTL,
	})
	if err != nil {
		return nil, err
	}
	jobs, err := cron.NewRegistry(job)
	if err != nil {
		return nil, err
	}

	var lock cron.Lock = cron.NewLocalLock()
	if redisClient != nil {
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(cron.CartEvictionJobName, cfg.App.Env), cfg.Cart.SweepInterval)
		if err != nil {
			return nil, err
		}
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(reg),
		Interval: cfg.Cart.SweepInterval,
	})
}
