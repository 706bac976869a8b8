package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quizdrill/backend/internal/api"
	"github.com/quizdrill/backend/internal/infrastructure/config"
	"github.com/quizdrill/backend/internal/logger"
	"github.com/quizdrill/backend/internal/metrics"
	"github.com/quizdrill/backend/internal/service"
	"github.com/quizdrill/backend/internal/store"

	_ "github.com/quizdrill/backend/docs" // generated swagger docs
)

// @title           Quizdrill API
// @version         1.0
// @description     Build a question bank, drill it until every answer sticks, and move quizzes around as JSON files.

// @host      localhost:8080
// @BasePath  /

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run wires the server and blocks until it stops. Startup failures are
// returned, not fatal.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	log := logger.New(cfg)
	defer log.Sync()

	// ── Dependencies ────────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := store.Open(ctx, store.OptionsFromConfig(cfg.Store))
	cancel()
	if err != nil {
		log.Error("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		return err
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	trainer := service.NewTrainer(st, cfg.Store.Key, log, m, service.WithSessionTTL(cfg.SessionTTL))
	if err := trainer.Load(context.Background()); err != nil {
		log.Error("failed to load quiz", zap.Error(err))
		return err
	}

	// ── Routes ──────────────────────────────────────────────────────
	router := api.NewRouter(api.NewHandler(trainer, log), api.RouterOptions{
		Logger:         log,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	log.Info("starting server",
		zap.String("address", cfg.ServerAddress),
		zap.String("store", cfg.Store.Driver),
		zap.String("env", cfg.Env),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed to start", zap.Error(err))
		return err
	}
	return nil
}
