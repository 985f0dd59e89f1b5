package repository

import (
	"context"
	"time"

	"heartline/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	// GetThread returns the conversation between two users, oldest first,
	// hiding messages the viewer deleted on their side.
	GetThread(ctx context.Context, viewer, other string) ([]models.Message, error)
	AddMessage(msg *models.Message)
	MarkRead(ids []uint, at time.Time)
}

type messageRepository struct {
	db      *gorm.DB
	changes *changeSet
}

func (r *messageRepository) GetThread(ctx context.Context, viewer, other string) ([]models.Message, error) {
	viewer, other = NormalizeUsername(viewer), NormalizeUsername(other)
	msgs := []models.Message{}
	err := r.db.WithContext(ctx).
		Where("recipient_username = ? AND sender_username = ? AND recipient_deleted = ?", viewer, other, false).
		Or("recipient_username = ? AND sender_username = ? AND sender_deleted = ?", other, viewer, false).
		Order("message_sent, id").
		Find(&msgs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

func (r *messageRepository) AddMessage(msg *models.Message) {
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		res := tx.Create(msg)
		return res.RowsAffected, res.Error
	})
}

func (r *messageRepository) MarkRead(ids []uint, at time.Time) {
	if len(ids) == 0 {
		return
	}
	r.changes.stage(func(tx *gorm.DB) (int64, error) {
		res := tx.Model(&models.Message{}).
			Where("id IN ? AND date_read IS NULL", ids).
			Update("date_read", at)
		return res.RowsAffected, res.Error
	})
}
