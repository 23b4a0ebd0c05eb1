package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventmarket/internal/booking"
	"eventmarket/internal/httpapi"
	"eventmarket/internal/lead"
	"eventmarket/internal/listing"
	"eventmarket/internal/memstore"
	"eventmarket/internal/seed"
	"eventmarket/internal/statscache"
	"eventmarket/pkg/config"
	"eventmarket/pkg/db"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := httpapi.Dependencies{Cfg: cfg}

	switch cfg.Store {
	case config.StoreMemory:
		listings, bookings, leads := memstore.NewListings(), memstore.NewBookings(), memstore.NewLeads()
		if _, err := seed.Load(ctx, seed.Stores{Listings: listings, Bookings: bookings, Leads: leads}, time.Now()); err != nil {
			log.Fatalf("seed: %v", err)
		}
		deps.Listings, deps.Bookings, deps.Leads = listings, bookings, leads
		log.Printf("store=memory (seeded)")
	default:
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer conn.Close()

		if cfg.MigrationsPath != "" {
			if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
		deps.Listings = listing.NewRepository(conn)
		deps.Bookings = booking.NewRepository(conn)
		deps.Leads = lead.NewRepository(conn)
	}

	if cfg.RedisURL != "" {
		cache, err := statscache.Open(ctx, cfg.RedisURL, cfg.StatsCacheTTL)
		if err != nil {
			// Stats still work uncached.
			log.Printf("statscache disabled: %v", err)
		} else {
			defer cache.Close()
			deps.Stats = cache
		}
	}

	if cfg.IsProd() && cfg.JWTSecret == config.DevJWTSecret {
		log.Fatalf("JWT_SECRET must be set in production")
	}

	router := httpapi.NewRouter(deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("http listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}
