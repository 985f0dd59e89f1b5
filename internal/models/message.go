package models

import "time"

// Message is a direct message between two users.
type Message struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	SenderID          uint       `gorm:"not null;index" json:"sender_id"`
	SenderUsername    string     `gorm:"not null;size:64" json:"sender_username"`
	RecipientID       uint       `gorm:"not null;index" json:"recipient_id"`
	RecipientUsername string     `gorm:"not null;size:64" json:"recipient_username"`
	Content           string     `gorm:"type:text;not null" json:"content"`
	DateRead          *time.Time `json:"date_read,omitempty"`
	MessageSent       time.Time  `gorm:"not null;index" json:"message_sent"`
	SenderDeleted     bool       `gorm:"not null;default:false" json:"-"`
	RecipientDeleted  bool       `gorm:"not null;default:false" json:"-"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}
