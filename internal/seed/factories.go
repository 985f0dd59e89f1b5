// Package seed creates demo data for development databases and tests.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"heartline/internal/models"
	"heartline/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "Pa$$w0rd"

// Factory builds members, photos and likes and persists them.
type Factory struct {
	db     *gorm.DB
	roles  repository.RoleRepository
	faker  *gofakeit.Faker
	hashed string
}

// NewFactory returns a Factory bound to db. A fixed seed gives a repeatable
// data set. SkipBcrypt stores the plain password, which only suits tests.
func NewFactory(db *gorm.DB, seed int64, skipBcrypt bool) (*Factory, error) {
	hashed := DefaultPassword
	if !skipBcrypt {
		h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password: %w", err)
		}
		hashed = string(h)
	}
	return &Factory{
		db:     db,
		roles:  repository.NewRoleRepository(db),
		faker:  gofakeit.New(seed),
		hashed: hashed,
	}, nil
}

// CreateMember persists a generated member holding roles.
// Optional override functions may modify the user before saving.
func (f *Factory) CreateMember(ctx context.Context, roles []string, overrides ...func(*models.User)) (*models.User, error) {
	gender := f.faker.Gender()
	first := f.faker.FirstName()
	now := time.Now().UTC()
	user := &models.User{
		Username:     strings.ToLower(first) + fmt.Sprintf("%d", f.faker.Number(100, 99999)),
		KnownAs:      first,
		Gender:       gender,
		DateOfBirth:  f.faker.DateRange(now.AddDate(-60, 0, 0), now.AddDate(-18, 0, 0)).UTC(),
		City:         f.faker.City(),
		Country:      f.faker.Country(),
		PasswordHash: f.hashed,
		LastActive:   now.Add(-time.Duration(f.faker.Number(0, 72*60)) * time.Minute),
	}
	for _, override := range overrides {
		override(user)
	}
	user.Username = repository.NormalizeUsername(user.Username)

	if err := f.db.WithContext(ctx).Omit("Photos", "UserRoles").Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	if err := f.roles.AddToRoles(ctx, user.ID, roles); err != nil {
		return nil, fmt.Errorf("grant roles to %s: %w", user.Username, err)
	}
	return user, nil
}

// CreatePhotos gives user count photos. The first is approved and main;
// the rest wait in the moderation queue.
func (f *Factory) CreatePhotos(ctx context.Context, user *models.User, count int) ([]models.Photo, error) {
	photos := make([]models.Photo, 0, count)
	for i := 0; i < count; i++ {
		publicID := "heartline/" + f.faker.UUID()
		photos = append(photos, models.Photo{
			URL:        fmt.Sprintf("https://picsum.photos/seed/%s/600/800", strings.TrimPrefix(publicID, "heartline/")),
			PublicID:   &publicID,
			IsApproved: i == 0,
			IsMain:     i == 0,
			UserID:     user.ID,
		})
	}
	if len(photos) == 0 {
		return photos, nil
	}
	if err := f.db.WithContext(ctx).Omit("User").Create(&photos).Error; err != nil {
		return nil, fmt.Errorf("create photos for %s: %w", user.Username, err)
	}
	return photos, nil
}

// CreateLikes makes source like up to count distinct users picked from
// candidates, never itself. It returns the ids liked.
func (f *Factory) CreateLikes(ctx context.Context, source *models.User, candidates []*models.User, count int) ([]uint, error) {
	pool := make([]*models.User, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != source.ID {
			pool = append(pool, c)
		}
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := f.faker.Number(0, i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	if count > len(pool) {
		count = len(pool)
	}

	likes := make([]models.Like, 0, count)
	ids := make([]uint, 0, count)
	for _, target := range pool[:count] {
		likes = append(likes, models.Like{SourceUserID: source.ID, TargetUserID: target.ID})
		ids = append(ids, target.ID)
	}
	if len(likes) == 0 {
		return ids, nil
	}
	if err := f.db.WithContext(ctx).Omit("SourceUser", "TargetUser").Create(&likes).Error; err != nil {
		return nil, fmt.Errorf("create likes for %s: %w", source.Username, err)
	}
	return ids, nil
}
