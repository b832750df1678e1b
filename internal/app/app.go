package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/karadeck/karadeck/internal/bridge"
	"github.com/karadeck/karadeck/internal/config"
	"github.com/karadeck/karadeck/internal/engine"
	"github.com/karadeck/karadeck/internal/httpserver"
	"github.com/karadeck/karadeck/internal/httpserver/deps"
	"github.com/karadeck/karadeck/internal/logger"
	"github.com/karadeck/karadeck/internal/redis"
	"github.com/karadeck/karadeck/internal/remote"
	"github.com/karadeck/karadeck/internal/scheduler"
	redisstore "github.com/karadeck/karadeck/internal/store/redis"
	"github.com/karadeck/karadeck/internal/tabs"
	"github.com/karadeck/karadeck/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	engine      *engine.Engine
	hub         *bridge.Hub
	poller      *tabs.Poller
	refresher   *scheduler.Refresher
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient, loggerClient, cfg.CacheMaxText)

	client := remote.NewClient(remote.Options{
		BaseURL:   cfg.KarakeepURL,
		APIKey:    cfg.KarakeepAPIKey,
		PageLimit: cfg.PageLimit,
		Timeout:   cfg.RequestTimeout,
	})

	eng := engine.New(client, store, store, loggerClient)

	hub := bridge.NewHub(cfg.BridgeTimeout, cfg.AllowedOrigins, loggerClient)
	poller := tabs.NewPoller(hub, cfg.TabsPollInterval, loggerClient)

	reloadTrigger := make(chan struct{}, 1)
	refresher := scheduler.NewRefresher(eng, loggerClient, cfg.RefreshInterval, reloadTrigger)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		Engine:         eng,
		Bridge:         hub,
		Tabs:           poller,
		RedisClient:    redisClient,
		ReloadTrigger:  reloadTrigger,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		engine:      eng,
		hub:         hub,
		poller:      poller,
		refresher:   refresher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting karadeck v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("karadeck %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Render the cached view immediately, then converge on the remote
	// store in the background. A cold start without a cache does the
	// first reload loudly so clients see the loading state.
	primed := a.engine.Prime(ctx)
	go func() {
		if err := a.engine.Reload(ctx, primed); err != nil {
			a.logger.Error("initial reload failed", logger.Error(err))
		}
	}()

	a.refresher.Start(ctx)
	a.logger.Info("background refresher started",
		logger.Duration("interval", a.cfg.RefreshInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Let in-flight mutation confirmations settle before closing stores.
	a.engine.Wait()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("redis connection closed")
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
