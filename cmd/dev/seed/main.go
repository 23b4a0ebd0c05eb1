package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"eventmarket/internal/booking"
	"eventmarket/internal/lead"
	"eventmarket/internal/listing"
	"eventmarket/internal/seed"
	"eventmarket/pkg/config"
	"eventmarket/pkg/db"
)

func main() {
	migrate := flag.Bool("migrate", true, "apply pending migrations first")
	flag.Parse()

	cfg := config.Load()
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}

	ctx := context.Background()

	if *migrate {
		if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
	}

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	res, err := seed.Load(ctx, seed.Stores{
		Listings: listing.NewRepository(pool),
		Bookings: booking.NewRepository(pool),
		Leads:    lead.NewRepository(pool),
	}, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeded %d listings, %d bookings, %d leads\n", len(res.Listings), len(res.Bookings), len(res.Leads))
	for _, l := range res.Listings {
		fmt.Printf("  %-15s %s  %s (vendor %s)\n", l.Category, l.ID, l.Name, l.VendorID)
	}
	for _, b := range res.Bookings {
		fmt.Printf("  booking %s  %-10s %s\n", b.ID, b.Status, b.EventName)
	}
}
