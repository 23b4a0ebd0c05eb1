package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"eventmarket/pkg/config"
	"eventmarket/pkg/db"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying pending ones")
	flag.Parse()

	cfg := config.Load()
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}

	if *down > 0 {
		if err := db.RollbackConfig(cfg.MigrationsPath, cfg, *down); err != nil {
			fmt.Fprintf(os.Stderr, "rollback failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("rolled back %d migration(s)\n", *down)
		return
	}

	// Uses DIRECT_URL if set.
	if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}

	// Sanity check that the runtime connection (DATABASE_URL) opens too.
	// DSNs are never printed.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime db open failed: %v\n", err)
		os.Exit(1)
	}
	pool.Close()

	fmt.Println("migrations applied")
}
