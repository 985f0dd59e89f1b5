package models

// Photo is an image owned by a user. Photos start unapproved and go through
// moderation before they are shown to other members.
type Photo struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	URL        string  `gorm:"not null" json:"url"`
	PublicID   *string `gorm:"size:255" json:"public_id,omitempty"`
	IsMain     bool    `gorm:"not null;default:false" json:"is_main"`
	IsApproved bool    `gorm:"not null;default:false;index" json:"is_approved"`
	UserID     uint    `gorm:"not null;index" json:"user_id"`
	User       *User   `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (Photo) TableName() string {
	return "photos"
}
