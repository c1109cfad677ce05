package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/PurpleChirp/HealthWatcher/internal/client"
	"github.com/PurpleChirp/HealthWatcher/internal/config"
	"github.com/PurpleChirp/HealthWatcher/internal/dashboard"
	"github.com/PurpleChirp/HealthWatcher/internal/server"
	"github.com/PurpleChirp/HealthWatcher/internal/session"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	logger, err := initLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 3. 构建组件
	backend := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
	machine := session.NewMachine(logger)
	buffer := dashboard.NewTimeSeriesBuffer(cfg.Dashboard.ChartCapacity)
	alerts := dashboard.NewAlertPresenter(cfg.Dashboard.AlertDuration, logger)
	defer alerts.Close()

	var cache *dashboard.CachePublisher
	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		cache = dashboard.NewCachePublisher(
			dashboard.NewRedisKVStore(redisClient),
			cfg.Cache.Key,
			cfg.Cache.TTL,
			logger,
		)
	}

	controller := dashboard.NewController(
		backend,
		machine,
		buffer,
		alerts,
		cache,
		cfg.Dashboard.RetrainRefetchDelay,
		logger,
	)
	poller := dashboard.NewPoller(cfg.Dashboard.PollInterval, controller.FetchOnce, logger)
	controller.SetScheduler(poller)

	// 4. 创建上下文（支持优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. 启动轮询
	go poller.Start(ctx)

	// 6. 启动 HTTP 服务
	srv := server.New(controller, poller, backend, logger)
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: srv.Router(),
	}

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Info("Dashboard server listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("backend", cfg.Backend.BaseURL),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	// 7. 等待信号（优雅关闭）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
	case err := <-serverErrChan:
		logger.Fatal("HTTP server error",
			zap.Error(err),
		)
	}

	cancel() // 停止轮询

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed",
			zap.Error(err),
		)
	}

	logger.Info("Dashboard service stopped")
}

// initLogger 初始化日志
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch cfg.Log.Level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Log.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapCfg.OutputPaths = []string{"stdout"}
		zapCfg.ErrorOutputPaths = []string{"stderr"}
	}
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service_name", "health-watcher")), nil
}
