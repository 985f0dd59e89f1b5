// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"heartline/internal/config"
	"heartline/internal/database"
	"heartline/internal/models"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|roles|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := database.EnsureRoles(ctx, db); err != nil {
			return err
		}
		log.Println("schema migrated and built-in roles ensured")
	case "roles":
		if err := database.EnsureRoles(ctx, db); err != nil {
			return err
		}
		log.Println("built-in roles ensured")
	case "status":
		for _, m := range database.PersistentModels() {
			log.Printf("%-12T table present: %v", m, db.Migrator().HasTable(m))
		}
		var roles []models.Role
		if err := db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
			return fmt.Errorf("list roles: %w", err)
		}
		for _, r := range roles {
			log.Printf("role %d: %s", r.ID, r.Name)
		}
	default:
		return usage()
	}
	return nil
}
