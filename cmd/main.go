// allindiajobs listing service
//
// Public job-listings catalog plus the authenticated admin API:
//   - GET  /buckets, /jobs/{bucket}, /job/{id}[/{slug}]  (public catalog)
//   - POST /admin/login|logout, CRUD under /admin/jobs   (admin panel)
//
// Postings live in a PostgreSQL JSONB collection; every change is pushed to
// the in-process feed as a full snapshot via LISTEN/NOTIFY. Redis holds admin
// sessions and visitor counters; admin credentials are verified against an
// external Supabase auth service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RamD446/allindiajobs/internal/admin"
	"github.com/RamD446/allindiajobs/internal/auth"
	"github.com/RamD446/allindiajobs/internal/catalog"
	"github.com/RamD446/allindiajobs/internal/config"
	"github.com/RamD446/allindiajobs/internal/db"
	"github.com/RamD446/allindiajobs/internal/scheduler"
	"github.com/RamD446/allindiajobs/internal/stats"
	"github.com/RamD446/allindiajobs/internal/store"
	"github.com/RamD446/allindiajobs/internal/web"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[listing-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[listing-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[listing-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[listing-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[listing-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[listing-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[listing-service] Redis connected ✓")

	// ── Job record store + feed ──────────────────────────────────────────────
	st := store.New(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("[listing-service] Schema: %v", err)
	}

	feed := catalog.NewFeed()
	unsubscribe := st.Subscribe(feed.Replace, feed.Fail)
	defer unsubscribe()

	go func() {
		if err := st.Listen(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[listing-service] Store listener stopped: %v", err)
		}
	}()

	// ── Refresh scheduler ────────────────────────────────────────────────────
	sched := scheduler.New(st, cfg.RefreshIntervalMinutes)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[listing-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── Auth + stats ─────────────────────────────────────────────────────────
	authSvc := auth.NewService(cfg.SupabaseURL, cfg.SupabaseKey, rdb,
		time.Duration(cfg.SessionTTLHours)*time.Hour)
	recorder := stats.NewRecorder(rdb)

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	web.NewHandler(feed, st, recorder, cfg.PageSize).RegisterRoutes(mux)
	admin.NewHandler(st, authSvc, feed, recorder).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[listing-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[listing-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[listing-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[listing-service] Shutdown error: %v", err)
	}
	log.Println("[listing-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "listing-service",
		"version": version,
	})
}
