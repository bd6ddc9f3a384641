package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sanspareilsmyn/gnsslens/internal/config"
	"github.com/sanspareilsmyn/gnsslens/internal/gnssmetrics"
	"github.com/sanspareilsmyn/gnsslens/internal/logging"
	"github.com/sanspareilsmyn/gnsslens/internal/pipeline"
	"github.com/sanspareilsmyn/gnsslens/internal/platform"
	"github.com/sanspareilsmyn/gnsslens/internal/power"
)

var (
	configFile = flag.String("config", "configs/config.dev.yaml", "Path to the configuration file")
	logger     *zap.Logger
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration from %s: %v\n", *configFile, err)
		os.Exit(1)
	}

	var logErr error
	logger, logErr = logging.NewLogger(cfg.Log)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", logErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	sugar := logger.Sugar()
	sugar.Infow("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)
	sugar.Infow("Configuration loaded successfully", "path", *configFile)

	// Assemble the aggregator and its collaborators.
	clock := platform.NewSystemClock()
	props := platform.NewEnvProperties(cfg.Gnss.PropertyPrefix)
	battery := power.NewAccountant(clock, cfg.Gnss.BatteryDrainMa)
	agg := gnssmetrics.New(battery, clock, props, gnssmetrics.NewJSONEncoder(), logger.Named("gnssmetrics"))

	sugar.Info("Initializing pipeline...")
	pipe, err := pipeline.New(cfg, agg, logger)
	if err != nil {
		sugar.Fatalw("Failed to initialize pipeline", "error", err)
	}
	sugar.Info("Ingestion pipeline initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signals
		sugar.Infow("Received signal, initiating shutdown...", "signal", sig.String())
		cancel()
	}()

	startMetricsServer(ctx, cfg.Pipeline.MetricsAddr, agg)

	sugar.Info("Starting ingestion pipeline...")
	runErr := pipe.Run(ctx)

	finalLogLevel := zapcore.InfoLevel
	shutdownReason := "gracefully"
	var finalErrorField = zap.Skip()

	switch {
	case runErr == nil:
		sugar.Info("Pipeline execution completed without error.")
	case errors.Is(runErr, context.Canceled):
		sugar.Info("Pipeline execution cancelled (expected on shutdown).")
	default:
		shutdownReason = "due to error"
		finalLogLevel = zapcore.ErrorLevel
		finalErrorField = zap.Error(runErr)
		sugar.Errorw("Pipeline execution stopped unexpectedly", zap.Error(runErr))
	}

	logger.Log(finalLogLevel, fmt.Sprintf("Pipeline shutdown %s.", shutdownReason),
		zap.String("reason", shutdownReason),
		finalErrorField,
	)

	sugar.Info("gnsslens finished.")
}

// startMetricsServer serves Prometheus metrics plus a human-readable KPI
// dump of the current (unexported) interval.
func startMetricsServer(ctx context.Context, addr string, agg *gnssmetrics.Aggregator) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/gnss", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(agg.DumpAsText()))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	sugar := logger.Sugar()

	go func() {
		sugar.Infow("Metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("Metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
