package repository

import (
	"context"
	"errors"

	"heartline/internal/models"

	"gorm.io/gorm"
)

// PhotoRepository defines persistence operations for photos.
type PhotoRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Photo, error)
	ListUnapproved(ctx context.Context) ([]models.PhotoForApproval, error)
	Add(photo *models.Photo)
	// Update stages a write of the moderation flags of photo.
	Update(photo *models.Photo)
	Remove(photo *models.Photo)
}

type photoRepository struct {
	db      *gorm.DB
	changes *changeSet
}

func (r *photoRepository) GetByID(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundMessage("Photo not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &photo, nil
}

func (r *photoRepository) ListUnapproved(ctx context.Context) ([]models.PhotoForApproval, error) {
	out := []models.PhotoForApproval{}
	err := r.db.WithContext(ctx).
		Table("photos").
		Select("photos.id, photos.url, users.username, photos.is_approved").
		Joins("JOIN users ON users.id = photos.user_id").
		Where("photos.is_approved = ?", false).
		Order("photos.id").
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *photoRepository) Add(photo *models.Photo) {
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		res := tx.Omit("User").Create(photo)
		return res.RowsAffected, res.Error
	})
}

func (r *photoRepository) Update(photo *models.Photo) {
	id, approved, main := photo.ID, photo.IsApproved, photo.IsMain
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		res := tx.Model(&models.Photo{}).Where("id = ?", id).Updates(map[string]interface{}{
			"is_approved": approved,
			"is_main":     main,
		})
		return res.RowsAffected, res.Error
	})
}

func (r *photoRepository) Remove(photo *models.Photo) {
	id := photo.ID
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		res := tx.Delete(&models.Photo{}, id)
		return res.RowsAffected, res.Error
	})
}
