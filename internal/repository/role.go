package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heartline/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnknownRole is returned when a role name has no row in the roles table.
var ErrUnknownRole = errors.New("role does not exist")

// RoleRepository manages role membership. Each mutating call runs in its own
// transaction, independent of any unit of work.
type RoleRepository interface {
	ListUsersWithRoles(ctx context.Context) ([]models.UserWithRoles, error)
	// GetRoles returns the user's role names in the order they were granted.
	GetRoles(ctx context.Context, userID uint) ([]string, error)
	AddToRoles(ctx context.Context, userID uint, roles []string) error
	RemoveFromRoles(ctx context.Context, userID uint, roles []string) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository returns a new RoleRepository implementation.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func grantOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at, role_id")
}

func (r *roleRepository) ListUsersWithRoles(ctx context.Context) ([]models.UserWithRoles, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("UserRoles", grantOrder).
		Preload("UserRoles.Role").
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	out := make([]models.UserWithRoles, 0, len(users))
	for _, u := range users {
		roles := make([]string, 0, len(u.UserRoles))
		for _, ur := range u.UserRoles {
			roles = append(roles, ur.Role.Name)
		}
		out = append(out, models.UserWithRoles{ID: u.ID, Username: u.Username, Roles: roles})
	}
	return out, nil
}

func (r *roleRepository) GetRoles(ctx context.Context, userID uint) ([]string, error) {
	var grants []models.UserRole
	err := grantOrder(r.db.WithContext(ctx)).
		Preload("Role").
		Where("user_id = ?", userID).
		Find(&grants).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	names := make([]string, 0, len(grants))
	for _, g := range grants {
		names = append(names, g.Role.Name)
	}
	return names, nil
}

func (r *roleRepository) AddToRoles(ctx context.Context, userID uint, roles []string) error {
	if len(roles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Spread timestamps so grants made in one call keep their order.
		base := time.Now().UTC()
		for i, name := range roles {
			role, err := findRole(tx, name)
			if err != nil {
				return err
			}
			grant := models.UserRole{
				UserID:    userID,
				RoleID:    role.ID,
				CreatedAt: base.Add(time.Duration(i) * time.Microsecond),
			}
			err = tx.Omit("Role").
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&grant).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *roleRepository) RemoveFromRoles(ctx context.Context, userID uint, roles []string) error {
	if len(roles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range roles {
			role, err := findRole(tx, name)
			if err != nil {
				return err
			}
			err = tx.Where("user_id = ? AND role_id = ?", userID, role.ID).
				Delete(&models.UserRole{}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func findRole(tx *gorm.DB, name string) (*models.Role, error) {
	var role models.Role
	if err := tx.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRole, name)
		}
		return nil, err
	}
	return &role, nil
}
