package main

import (
	"flag"
	"log"
	"os"

	"word-imposter/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	down := flag.Bool("down", false, "roll back one migration instead of applying all")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	m, err := migrate.New("file://db/migrations", mustDatabaseURL())
	if err != nil {
		log.Fatalf("migration setup failed: %v", err)
	}
	if *down {
		if err := m.Steps(-1); err != nil {
			log.Fatalf("database rollback failed: %v", err)
		}
		log.Println("rolled back one migration")
		return
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("database migration failed: %v", err)
	}
	log.Println("database migrations applied")
}

func mustDatabaseURL() string {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	return dsn
}
