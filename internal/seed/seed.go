package seed

import (
	"context"
	"fmt"

	"heartline/internal/database"
	"heartline/internal/middleware"
	"heartline/internal/models"

	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	NumUsers      int
	PhotosPerUser int
	LikesPerUser  int
	Seed          int64
	SkipBcrypt    bool
}

// Result summarizes what a run created.
type Result struct {
	Admin   *models.User
	Members []*models.User
	Photos  int
	Likes   int
}

// Seeder populates a database with an admin and generated members.
type Seeder struct {
	db   *gorm.DB
	opts Options
}

// NewSeeder returns a Seeder for db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts}
}

// ClearAll removes every row the seeder can create. Roles are kept.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []any{&models.Message{}, &models.Like{}, &models.Photo{}, &models.UserRole{}, &models.User{}}
	for _, table := range tables {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "seed data cleared")
	return nil
}

// Run ensures the built-in roles exist, then creates an admin account
// and NumUsers members with photos and likes between them.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if err := database.EnsureRoles(ctx, s.db); err != nil {
		return nil, err
	}

	f, err := NewFactory(s.db, s.opts.Seed, s.opts.SkipBcrypt)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	res.Admin, err = f.CreateMember(ctx, []string{models.RoleAdmin, models.RoleModerator}, func(u *models.User) {
		u.Username = "admin"
		u.KnownAs = "Admin"
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < s.opts.NumUsers; i++ {
		member, err := f.CreateMember(ctx, []string{models.RoleMember})
		if err != nil {
			return nil, err
		}
		photos, err := f.CreatePhotos(ctx, member, s.opts.PhotosPerUser)
		if err != nil {
			return nil, err
		}
		res.Photos += len(photos)
		res.Members = append(res.Members, member)
	}

	for _, member := range res.Members {
		ids, err := f.CreateLikes(ctx, member, res.Members, s.opts.LikesPerUser)
		if err != nil {
			return nil, err
		}
		res.Likes += len(ids)
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		"members", len(res.Members), "photos", res.Photos, "likes", res.Likes)
	return res, nil
}
