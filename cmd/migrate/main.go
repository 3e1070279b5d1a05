package main

import (
	"log"
	"os"

	"staffportal/config"
	"staffportal/internal/db"
)

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	cfg := config.Load()

	if err := db.Migrate(db.DSN(cfg.DB), direction); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("migrations %s: done", direction)
}
