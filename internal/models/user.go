// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is a member of the dating application.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null;size:64" json:"username"`
	KnownAs      string     `gorm:"size:64" json:"known_as"`
	Gender       string     `gorm:"size:16" json:"gender"`
	DateOfBirth  time.Time  `json:"date_of_birth"`
	City         string     `gorm:"size:128" json:"city"`
	Country      string     `gorm:"size:128" json:"country"`
	PasswordHash string     `gorm:"not null" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActive   time.Time  `json:"last_active"`
	Photos       []Photo    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	UserRoles    []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// MainPhoto returns the photo flagged as the profile photo, if any.
func (u *User) MainPhoto() *Photo {
	for i := range u.Photos {
		if u.Photos[i].IsMain {
			return &u.Photos[i]
		}
	}
	return nil
}

// Age returns the user's age in whole years at the given instant.
func (u *User) Age(now time.Time) int {
	if u.DateOfBirth.IsZero() {
		return 0
	}
	age := now.Year() - u.DateOfBirth.Year()
	if now.Month() < u.DateOfBirth.Month() ||
		(now.Month() == u.DateOfBirth.Month() && now.Day() < u.DateOfBirth.Day()) {
		age--
	}
	return age
}
