package repository

import (
	"context"
	"errors"
	"time"

	"heartline/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for the like relation.
type LikeRepository interface {
	// GetUserLike returns nil, nil when sourceID does not like targetID.
	GetUserLike(ctx context.Context, sourceID, targetID uint) (*models.Like, error)
	GetCurrentUserLikeIDs(ctx context.Context, userID uint) ([]uint, error)
	GetUserLikes(ctx context.Context, params models.LikesParams) (models.PagedList[models.MemberDTO], error)
	AddLike(like *models.Like)
	DeleteLike(like *models.Like)
}

type likeRepository struct {
	db      *gorm.DB
	changes *changeSet
}

func (r *likeRepository) GetUserLike(ctx context.Context, sourceID, targetID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("source_user_id = ? AND target_user_id = ?", sourceID, targetID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *likeRepository) GetCurrentUserLikeIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("source_user_id = ?", userID).
		Order("target_user_id").
		Pluck("target_user_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// GetUserLikes expects params already normalized with a valid predicate.
func (r *likeRepository) GetUserLikes(ctx context.Context, params models.LikesParams) (models.PagedList[models.MemberDTO], error) {
	liked := func() *gorm.DB {
		return r.db.Model(&models.Like{}).Select("target_user_id").Where("source_user_id = ?", params.UserID)
	}
	likedBy := func() *gorm.DB {
		return r.db.Model(&models.Like{}).Select("source_user_id").Where("target_user_id = ?", params.UserID)
	}

	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.User{})
		switch params.Predicate {
		case models.PredicateLikedBy:
			return q.Where("users.id IN (?)", likedBy())
		case models.PredicateMutual:
			return q.Where("users.id IN (?)", liked()).Where("users.id IN (?)", likedBy())
		default:
			return q.Where("users.id IN (?)", liked())
		}
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return models.PagedList[models.MemberDTO]{}, models.NewInternalError(err)
	}

	var users []models.User
	err := query().
		Preload("Photos").
		Order("users.id").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&users).Error
	if err != nil {
		return models.PagedList[models.MemberDTO]{}, models.NewInternalError(err)
	}

	now := time.Now()
	members := make([]models.MemberDTO, 0, len(users))
	for i := range users {
		members = append(members, models.NewMemberDTO(&users[i], now))
	}
	return models.NewPagedList(members, total, params.PageNumber, params.PageSize), nil
}

func (r *likeRepository) AddLike(like *models.Like) {
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		res := tx.Omit("SourceUser", "TargetUser").Create(like)
		return res.RowsAffected, res.Error
	})
}

func (r *likeRepository) DeleteLike(like *models.Like) {
	source, target := like.SourceUserID, like.TargetUserID
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		res := tx.Where("source_user_id = ? AND target_user_id = ?", source, target).Delete(&models.Like{})
		return res.RowsAffected, res.Error
	})
}
