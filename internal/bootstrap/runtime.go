// Package bootstrap wires the runtime dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"heartline/internal/cache"
	"heartline/internal/config"
	"heartline/internal/database"
	"heartline/internal/middleware"
	"heartline/internal/models"
	"heartline/internal/seed"
	"heartline/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty development database with demo members.
	SeedDemo bool
}

// Runtime is the set of initialized dependencies.
type Runtime struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Assets storage.AssetStore
}

// InitRuntime connects to the database, Redis and the asset store, and
// optionally seeds demo data.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May leave a nil client if Redis is unreachable.
	cache.InitRedis(cfg.RedisURL)

	assets, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("asset store init failed: %w", err)
	}

	if opts.SeedDemo {
		if err := seedDemo(ctx, cfg, db); err != nil {
			return nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return &Runtime{DB: db, Redis: cache.GetClient(), Assets: assets}, nil
}

// seedDemo seeds only development databases that have no users yet.
func seedDemo(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	middleware.Logger.InfoContext(ctx, "seeding demo data into empty development database")
	_, err := seed.NewSeeder(db, seed.Options{NumUsers: 20, PhotosPerUser: 3, LikesPerUser: 5}).Run(ctx)
	return err
}
