package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"rolldepot/internal/api"
	"rolldepot/internal/clip"
	"rolldepot/internal/db"
	"rolldepot/internal/fieldmaps"
	"rolldepot/internal/metrics"
	"rolldepot/internal/models"
	"rolldepot/internal/schedule"
	"rolldepot/internal/tracks"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	diag := schedule.SlogDiag{Logger: logger}

	pool, err := db.ConnectFromEnv(ctx)
	if err != nil {
		logger.Warn("database unavailable, using in-memory stores", "error", err.Error())
	}
	if pool != nil {
		defer pool.Close()
	}

	var trackStore tracks.Store = tracks.NewMemoryStore()
	mappings := &fieldmaps.Source{}
	if pool != nil {
		pg := tracks.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("track schema setup failed", "error", err.Error())
		} else {
			trackStore = pg
		}
		mappings.Pool = pool
		if err := mappings.EnsureSchema(ctx); err != nil {
			logger.Error("mapping schema setup failed", "error", err.Error())
		}
	}

	router := api.NewRouter(api.Config{
		Store:          models.NewModelStore(),
		Clip:           clip.NewStore(trackStore, diag),
		Mappings:       mappings,
		Tracks:         trackStore,
		Diag:           diag,
		Metrics:        metrics.New(),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 20),
	})

	srv := &http.Server{
		Addr:              envString("ADDR", ":8080"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err.Error())
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
