package models

import "time"

// Built-in role names.
const (
	RoleMember    = "Member"
	RoleModerator = "Moderator"
	RoleAdmin     = "Admin"
)

// BuiltInRoles lists the roles every deployment must have.
var BuiltInRoles = []string{RoleMember, RoleAdmin, RoleModerator}

// Role is a named permission group.
type Role struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"uniqueIndex;not null;size:64" json:"name"`
	UserRoles []UserRole `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserRole associates a user with a role. CreatedAt keeps the insertion order
// used when listing a user's roles.
type UserRole struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	RoleID    uint      `gorm:"primaryKey;autoIncrement:false" json:"role_id"`
	Role      Role      `gorm:"foreignKey:RoleID" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (UserRole) TableName() string {
	return "user_roles"
}
