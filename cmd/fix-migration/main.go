// Package main is a repair tool for dirty migration state in the inventory
// database. Dirty state occurs when the golang-migrate runner marks a migration
// version as in-progress (dirty=true) but the migration process was interrupted
// by a crash or timeout before it could complete. This tool connects to the
// database, checks the schema_migrations table, and clears the dirty flag so
// that the migration runner can retry cleanly on the next server startup —
// avoiding the "Dirty database version" error that would otherwise block the
// server from starting.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/asset-inventory/asset-inventory/internal/config"
	"github.com/asset-inventory/asset-inventory/internal/db"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.Database.GetDSN(), cfg.Database.MaxConnections, cfg.Database.MinIdleConnections)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer database.Close()

	var version int
	var dirty bool
	err = database.QueryRow("SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	if err != nil {
		log.Fatalf("Failed to read schema_migrations: %v", err)
	}

	fmt.Printf("Current migration state: version=%d, dirty=%v\n", version, dirty)

	if !dirty {
		fmt.Println("Migration state is clean, nothing to fix")
		return
	}

	if _, err := database.Exec("UPDATE schema_migrations SET dirty = false"); err != nil {
		log.Fatalf("Failed to clear dirty flag: %v", err)
	}

	fmt.Printf("Cleared dirty flag for version %d; the runner will retry on next startup\n", version)
}
