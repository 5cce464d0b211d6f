package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	gohttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tariffhawk/powershop-rates/internal/app/poller"
	"github.com/tariffhawk/powershop-rates/internal/app/powershop"
	"github.com/tariffhawk/powershop-rates/internal/pkg/config"
	"github.com/tariffhawk/powershop-rates/internal/pkg/http"
	"github.com/tariffhawk/powershop-rates/internal/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional, POWERSHOP_* env vars override)")
	flag.Parse()

	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	loggerConfig.DisableStacktrace = true
	logger, err := loggerConfig.Build()
	noErr(err)

	cfg, err := config.Load(*configPath)
	noErr(err)

	client := powershop.NewClient(powershop.Config{
		Email:      cfg.Email,
		Password:   cfg.Password,
		BaseURL:    cfg.BaseURL,
		CustomerID: cfg.CustomerID,
	}, http.NewSessionClient(), logger.Named("powershop"))

	metrics := poller.NewMetrics()
	memStore := store.NewMemoryStore(logger.Named("store"))
	svc := poller.NewService(client, memStore, time.Duration(cfg.PollInterval), logger.Named("poller"), metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *gohttp.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &gohttp.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, gohttp.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		logger.Info("metrics server enabled", zap.String("addr", cfg.MetricsAddr))
	}

	svc.Run(ctx)

	if metricsServer != nil {
		_ = metricsServer.Close()
	}

	_ = logger.Sync()
}

func noErr(err error) {
	if err != nil {
		fmt.Printf("failed to initialize something important: %v\n", err)
		panic(err)
	}
}
