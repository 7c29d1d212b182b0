package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"marketpulse/adapters/postgres/migrations"
	"marketpulse/internal/config"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator := migrations.NewMigrator(db.DB)
	ctx := context.Background()

	switch cmd {
	case "up":
		err = migrator.Up(ctx)
	case "status":
		err = migrator.Status(ctx)
	default:
		log.Fatalf("unknown command %q (want up or status)", cmd)
	}
	if err != nil {
		log.Fatalf("migration %s failed: %v", cmd, err)
	}
}
