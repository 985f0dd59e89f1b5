package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"heartline/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByUsername returns nil, nil when no user has that name.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByPhotoID(ctx context.Context, photoID uint) (*models.User, error)
	Add(user *models.User)
	// AddToRole stages a grant that resolves user.ID when the unit completes,
	// so it may follow Add in the same unit.
	AddToRole(user *models.User, role string)
	Update(user *models.User)
}

type userRepository struct {
	db      *gorm.DB
	changes *changeSet
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Photos").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Photos").
		Where("username = ?", NormalizeUsername(username)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByPhotoID(ctx context.Context, photoID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Photos").
		Joins("JOIN photos ON photos.user_id = users.id").
		Where("photos.id = ?", photoID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundMessage("User not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Add(user *models.User) {
	user.Username = NormalizeUsername(user.Username)
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		res := tx.Omit(clause.Associations).Create(user)
		return res.RowsAffected, res.Error
	})
}

func (r *userRepository) AddToRole(user *models.User, role string) {
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		found, err := findRole(tx, role)
		if err != nil {
			return 0, err
		}
		grant := models.UserRole{UserID: user.ID, RoleID: found.ID, CreatedAt: time.Now().UTC()}
		res := tx.Omit("Role").Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
		return res.RowsAffected, res.Error
	})
}

func (r *userRepository) Update(user *models.User) {
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		res := tx.Omit(clause.Associations).Save(user)
		return res.RowsAffected, res.Error
	})
}

// NormalizeUsername returns the stored form of a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
