// jobmate-jobs-service
//
// Job postings catalogue. Exposes the same operations over REST (Gateway)
// and gRPC (internal services):
//   - create / list (filtered) / get / update (partial) / remove
//
// Publishes EVENT_JOB_CHANGED to Redis after every successful mutation and
// periodically imports offers from Adzuna for companies already on file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	"jobmate/jobs-service/internal/config"
	"jobmate/jobs-service/internal/db"
	"jobmate/jobs-service/internal/events"
	"jobmate/jobs-service/internal/grpcserver"
	"jobmate/jobs-service/internal/importer"
	"jobmate/jobs-service/internal/jobs"
)

const version = "1.0.0"

// importTTL bounds how long an imported offer id is remembered.
const importTTL = 30 * 24 * time.Hour

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[jobs-service] .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[jobs-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[jobs-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[jobs-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[jobs-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[jobs-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[jobs-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[jobs-service] Redis connected ✓")

	svc := jobs.NewService(pool, events.NewPublisher(rdb))

	// ── Importer ─────────────────────────────────────────────────────────────
	worker := importer.NewWorker(
		importer.NewAdzunaFetcher(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry),
		svc,
		importer.NewRedisSeen(rdb, importTTL),
		importer.Search{
			Titles:    cfg.ImportTitles,
			Locations: cfg.ImportLocations,
			RedFlags:  cfg.ImportRedFlags,
		},
	)
	sched := importer.NewScheduler(worker, cfg.ImportIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[jobs-service] Scheduler: %v", err)
	}

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("[jobs-service] gRPC listen: %v", err)
	}
	gs := grpc.NewServer()
	grpcserver.Register(gs, grpcserver.NewServer(svc))

	go func() {
		log.Printf("[jobs-service] gRPC listening on :%s", cfg.GRPCPort)
		if err := gs.Serve(lis); err != nil {
			log.Fatalf("[jobs-service] gRPC server error: %v", err)
		}
	}()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	jobs.NewHandler(svc).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[jobs-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[jobs-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[jobs-service] Shutting down…")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[jobs-service] Shutdown error: %v", err)
	}
	gs.GracefulStop()
	log.Println("[jobs-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "jobs-service",
		"version": version,
	})
}
