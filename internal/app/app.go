// Package app wires configuration into a running contact service.
package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/salwynchristopher/portfolio/internal/api/handlers"
	"github.com/salwynchristopher/portfolio/internal/config"
	"github.com/salwynchristopher/portfolio/internal/contact"
	"github.com/salwynchristopher/portfolio/internal/logging"
	"github.com/salwynchristopher/portfolio/internal/mail"
	"github.com/salwynchristopher/portfolio/internal/metrics"
	"github.com/salwynchristopher/portfolio/internal/notify"
	"github.com/salwynchristopher/portfolio/internal/ratelimit"
	"github.com/salwynchristopher/portfolio/internal/server"
	"github.com/salwynchristopher/portfolio/internal/server/routes"
)

const storeCheckInterval = 30 * time.Second

// App owns every long-lived component of the service
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	Metrics *metrics.Metrics
	Service *contact.Service
	Server  *server.Server

	transport mail.Transport
	sweeper   *ratelimit.Sweeper
	redis     *goredis.Client
}

// Option customizes New
type Option func(*App)

// WithTransport replaces the SMTP transport
func WithTransport(t mail.Transport) Option {
	return func(a *App) { a.transport = t }
}

// New builds the application. A Redis store is used when REDIS_ADDR is
// set, otherwise an in-process store with a periodic sweep.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts ...Option) (*App, error) {
	a := &App{
		cfg:     cfg,
		logger:  logger,
		Metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.transport == nil {
		a.transport = mail.NewSMTPTransport(cfg.Mail)
	}

	store, err := a.newStore(ctx)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(store, ratelimit.WithLimit(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window))

	notifiers := notify.FromConfig(cfg.Notify)
	for _, n := range notifiers {
		logger.Info("Owner notifications enabled: %s", n.Name())
	}

	a.Service = contact.NewService(contact.Dependencies{
		Limiter:   limiter,
		Transport: a.transport,
		Mail:      cfg.Mail,
		Notifiers: notifiers,
		Recorder:  a.Metrics,
		Logger:    logger,
	})

	if missing := cfg.Mail.MissingKeys(); len(missing) > 0 {
		logger.Warn("Email service is not configured, missing %v; submissions will fail", missing)
	}

	health := handlers.NewHealthHandler()
	health.AddReadinessCheck("mail-config", func() error {
		if missing := cfg.Mail.MissingKeys(); len(missing) > 0 {
			return fmt.Errorf("missing %v", missing)
		}
		return nil
	})
	if a.redis != nil {
		health.AddPinger("redis", a.pingRedis)
	}

	a.Server = server.NewServer(cfg, &routes.Handlers{
		Contact: handlers.NewContactHandler(a.Service, logger),
		Health:  health,
		Metrics: a.Metrics.Handler(),
	}, a.Metrics, logger)

	return a, nil
}

func (a *App) newStore(ctx context.Context) (ratelimit.Store, error) {
	if a.cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:         a.cfg.Redis.Addr,
			Password:     a.cfg.Redis.Password,
			DB:           a.cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", a.cfg.Redis.Addr, err)
		}

		a.redis = rdb
		a.Metrics.ObserveStoreHealth(nil)
		a.logger.Info("Using Redis rate limit store at %s (db %d)", a.cfg.Redis.Addr, a.cfg.Redis.DB)
		return ratelimit.NewRedisStore(rdb, ""), nil
	}

	store, err := ratelimit.NewMemoryStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit store: %w", err)
	}
	if a.cfg.RateLimit.SweepInterval > 0 {
		a.sweeper = ratelimit.NewSweeper(store, a.cfg.RateLimit.Window, a.cfg.RateLimit.SweepInterval, a.logger)
	}
	a.Metrics.ObserveStoreHealth(nil)
	a.logger.Info("Using in-memory rate limit store")
	return store, nil
}

func (a *App) pingRedis(ctx context.Context) error {
	err := a.redis.Ping(ctx).Err()
	a.Metrics.ObserveStoreHealth(err)
	return err
}

// Run serves HTTP and runs the background jobs until ctx is cancelled or
// one of them fails.
func (a *App) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.Server.Run(groupCtx)
	})

	if a.sweeper != nil {
		group.Go(func() error {
			if err := a.sweeper.Start(); err != nil {
				return err
			}
			a.logger.Info("Rate limit sweep scheduled every %s", a.cfg.RateLimit.SweepInterval)
			<-groupCtx.Done()
			a.sweeper.Stop()
			return nil
		})
	}

	if a.redis != nil {
		group.Go(func() error {
			ticker := time.NewTicker(storeCheckInterval)
			defer ticker.Stop()
			for {
				select {
				case <-groupCtx.Done():
					return nil
				case <-ticker.C:
					pingCtx, cancel := context.WithTimeout(groupCtx, 2*time.Second)
					if err := a.pingRedis(pingCtx); err != nil {
						a.logger.Warn("Redis rate limit store unreachable: %v", err)
					}
					cancel()
				}
			}
		})
	}

	return group.Wait()
}

// Close releases external connections
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
