package models

import "time"

// Like is a directed edge from SourceUserID to TargetUserID. The pair is the
// primary key, so each ordered pair exists at most once.
type Like struct {
	SourceUserID uint      `gorm:"primaryKey;autoIncrement:false" json:"source_user_id"`
	TargetUserID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"target_user_id"`
	CreatedAt    time.Time `json:"created_at"`

	SourceUser User `gorm:"foreignKey:SourceUserID;constraint:OnDelete:CASCADE" json:"-"`
	TargetUser User `gorm:"foreignKey:TargetUserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}

// LikesPredicate selects which side of the like relation a query targets.
type LikesPredicate string

const (
	// PredicateLiked selects users the caller liked.
	PredicateLiked LikesPredicate = "liked"
	// PredicateLikedBy selects users who liked the caller.
	PredicateLikedBy LikesPredicate = "likedBy"
	// PredicateMutual selects users where the like goes both ways.
	PredicateMutual LikesPredicate = "mutual"
)

// Valid reports whether p is one of the recognized predicates.
func (p LikesPredicate) Valid() bool {
	switch p {
	case PredicateLiked, PredicateLikedBy, PredicateMutual:
		return true
	}
	return false
}
