package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"eventmarket/internal/auth"
	"eventmarket/internal/seed"
	"eventmarket/pkg/config"
)

func main() {
	var (
		subject = flag.String("sub", seed.VendorRoyal, "token subject (vendor or admin id)")
		role    = flag.String("role", auth.RoleVendor, "vendor or admin")
		name    = flag.String("name", "", "display name used as note/audit author")
		ttl     = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *role != auth.RoleVendor && *role != auth.RoleAdmin {
		fmt.Fprintln(os.Stderr, "-role must be vendor or admin")
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to mint tokens with APP_ENV=prod")
		os.Exit(2)
	}

	tok, err := auth.Issue(cfg.JWTSecret, *subject, *role, *name, *ttl, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
