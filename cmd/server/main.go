package main

import (
	"log"
	"net/http"
	"os"

	"word-imposter/internal/config"
	"word-imposter/internal/db"
	"word-imposter/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		log.Printf("running without persistence: %v", err)
		conn = nil
	} else {
		if err := db.ConfigurePool(conn, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns,
			cfg.DBConnMaxLifetimeSeconds, cfg.DBConnMaxIdleTimeSeconds); err != nil {
			log.Fatalf("configure db pool: %v", err)
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
	}

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(conn, cfg)
	log.Printf("word-imposter server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
