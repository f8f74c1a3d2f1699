// Seeding tool for the revmon database.
//
// Usage:
//
//	go run cmd/seed/main.go -db ./revmon.db -period 2024-12-01
//
// Provisions the schema and writes the demonstration dataset: six
// operators, six months of revenue reports with three pre-labeled
// anomaly patterns, and a month of sampled wagering transactions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nla-gaming/revmon/internal/domain"
	"github.com/nla-gaming/revmon/internal/repository"
	"github.com/nla-gaming/revmon/internal/seed"
)

func main() {
	var (
		driver = flag.String("driver", "sqlite", "database driver: sqlite or postgres")
		dbPath = flag.String("db", "./revmon.db", "sqlite database path")
		pgHost = flag.String("pg-host", "localhost", "postgres host")
		pgUser = flag.String("pg-user", "", "postgres user")
		pgPass = flag.String("pg-password", "", "postgres password")
		pgDB   = flag.String("pg-db", "revmon", "postgres database name")
		period = flag.String("period", domain.PeriodFromTime(time.Now().UTC()),
			"current reporting period (first-of-month date)")
	)
	flag.Parse()

	if !domain.ValidDate(*period) {
		fmt.Fprintf(os.Stderr, "invalid -period %q: want a YYYY-MM-DD date\n", *period)
		os.Exit(2)
	}

	repo, err := repository.New(domain.RepositoryConfig{
		Driver:           *driver,
		SQLitePath:       *dbPath,
		PostgresHost:     *pgHost,
		PostgresUser:     *pgUser,
		PostgresPassword: *pgPass,
		PostgresDB:       *pgDB,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	start := time.Now()
	if err := seed.Apply(context.Background(), repo, *period); err != nil {
		fmt.Fprintf(os.Stderr, "seeding failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeding completed in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Println("  - 6 operators")
	fmt.Printf("  - 6 months of revenue reports ending %s\n", *period)
	fmt.Println("  - ~1000 sampled wagering transactions")
	fmt.Println()
	fmt.Println("Planted anomaly labels:")
	fmt.Println("  1. Lucky Star Casino: 44% revenue drop in the current period")
	fmt.Println("  2. Monrovia Bet: round number pattern over four months")
	fmt.Println("  3. Safe Play Liberia: consistent late submissions")
}
