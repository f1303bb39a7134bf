package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"legaldocs-backend/internal/bootstrap"
	"legaldocs-backend/internal/shared/config"
)

const (
	defaultPollSeconds = 5
	defaultBatchSize   = 10
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pollInterval := time.Duration(envInt("WORKER_POLL_SECONDS", defaultPollSeconds)) * time.Second
	batchSize := envInt("WORKER_BATCH_SIZE", defaultBatchSize)

	app, err := bootstrap.BuildWorker(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	app.Extractor.BatchSize = batchSize

	log.Printf("worker started poll=%s batch=%d", pollInterval, batchSize)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		processed, err := app.Extractor.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("extraction pass: %v", err)
		}
		if processed > 0 {
			// Backlog present, keep draining without waiting out the tick.
			continue
		}

		select {
		case <-ctx.Done():
			log.Printf("shutdown requested")
			return
		case <-ticker.C:
		}
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
