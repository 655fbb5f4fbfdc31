package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"checkin/internal/config"
	"checkin/internal/metrics"
	"checkin/internal/participant"
	"checkin/internal/presence"
	"checkin/internal/queue"
	"checkin/internal/store"
)

const refreshEvery = 30 * time.Second

// Worker consumes scan messages and keeps the roster gauges current so the
// dashboard's live statistics survive API restarts.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "checkin:scans")
	}

	participants := participant.NewRepository(db.Client)
	presenceRepo := presence.NewRepository(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Printf("worker metrics on :%s", cfg.MetricsPort)
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			log.Printf("metrics listener failed: %v", err)
		}
	}()

	refresh(ctx, participants, presenceRepo)
	ticker := time.NewTicker(refreshEvery)
	defer ticker.Stop()

	log.Println("stats worker running")
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				log.Println("queue closed, exiting")
				return
			}
			log.Printf("processed %s for %s", msg.Type, msg.ParticipantID)
			refresh(ctx, participants, presenceRepo)
		case <-ticker.C:
			refresh(ctx, participants, presenceRepo)
		case <-ctx.Done():
			log.Println("stats worker exiting")
			return
		}
	}
}

// refresh recomputes the outside-roster projection and publishes it as
// gauges. Failures are logged and retried on the next trigger.
func refresh(ctx context.Context, participants *participant.Repository, presenceRepo *presence.Repository) {
	ps, err := participants.List(ctx)
	if err != nil {
		log.Printf("roster refresh: list participants: %v", err)
		return
	}
	events, err := presenceRepo.AllEvents(ctx)
	if err != nil {
		log.Printf("roster refresh: list toggles: %v", err)
		return
	}
	roster := presence.ProjectRoster(ps, events)
	metrics.ParticipantsOutside.Set(float64(roster.ScannedOutside))
	metrics.ParticipantsNeverScanned.Set(float64(roster.NeverScanned))
}
