// Command seed fills the database with an admin and generated members.
package main

import (
	"context"
	"flag"
	"log"

	"heartline/internal/config"
	"heartline/internal/database"
	"heartline/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of members to create")
	photos := flag.Int("photos", 3, "Photos per member; all but the first await moderation")
	likes := flag.Int("likes", 5, "Likes given by each member")
	fakerSeed := flag.Int64("seed", 0, "Faker seed for a repeatable data set (0 picks a random one)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, seed.Options{
		NumUsers:      *numUsers,
		PhotosPerUser: *photos,
		LikesPerUser:  *likes,
		Seed:          *fakerSeed,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d members, %d photos, %d likes", len(res.Members), res.Photos, res.Likes)
	log.Printf("Admin login: %s / %s", res.Admin.Username, seed.DefaultPassword)
}
