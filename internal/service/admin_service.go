// Package service contains the application's business logic.
package service

import (
	"context"
	"time"

	"heartline/internal/middleware"
	"heartline/internal/models"
	"heartline/internal/observability"
	"heartline/internal/repository"
	"heartline/internal/storage"
	"heartline/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultAssetDeleteTimeout bounds a remote asset deletion when no timeout is configured.
const DefaultAssetDeleteTimeout = 10 * time.Second

// AdminService provides role administration and photo moderation.
type AdminService struct {
	uow           repository.UnitOfWorkFactory
	roles         repository.RoleRepository
	assets        storage.AssetStore
	deleteTimeout time.Duration
}

// NewAdminService returns a new AdminService.
func NewAdminService(uow repository.UnitOfWorkFactory, roles repository.RoleRepository, assets storage.AssetStore, deleteTimeout time.Duration) *AdminService {
	if deleteTimeout <= 0 {
		deleteTimeout = DefaultAssetDeleteTimeout
	}
	return &AdminService{
		uow:           uow,
		roles:         roles,
		assets:        assets,
		deleteTimeout: deleteTimeout,
	}
}

// ListUsersWithRoles returns every user ordered by username with their role names.
func (s *AdminService) ListUsersWithRoles(ctx context.Context) ([]models.UserWithRoles, error) {
	return s.roles.ListUsersWithRoles(ctx)
}

// EditRoles makes the user's role set equal to the comma separated rolesCSV
// and returns the resulting role names. Additions and removals run as two
// separate steps; a failed removal leaves the additions in place.
func (s *AdminService) EditRoles(ctx context.Context, username, rolesCSV string) (_ []string, err error) {
	ctx, span := observability.StartSpan(ctx, "AdminService", "EditRoles", attribute.String("username", username))
	defer func() { observability.EndSpan(span, err) }()

	requested := validation.SplitCSV(rolesCSV)
	if len(requested) == 0 {
		return nil, models.NewValidationError("You must select at least one role")
	}

	user, err := s.uow.Begin().Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundMessage("User not found")
	}

	current, err := s.roles.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	toAdd := difference(requested, current)
	toRemove := difference(current, requested)

	if err := s.roles.AddToRoles(ctx, user.ID, toAdd); err != nil {
		return nil, models.NewOperationError("Failed to add roles", err)
	}
	if err := s.roles.RemoveFromRoles(ctx, user.ID, toRemove); err != nil {
		return nil, models.NewOperationError("Failed to remove from roles", err)
	}

	middleware.Logger.InfoContext(ctx, "roles updated",
		"username", user.Username, "added", toAdd, "removed", toRemove)

	return s.roles.GetRoles(ctx, user.ID)
}

// difference returns the members of a missing from b, in a's order.
func difference(a, b []string) []string {
	skip := make(map[string]struct{}, len(b))
	for _, v := range b {
		skip[v] = struct{}{}
	}
	out := []string{}
	for _, v := range a {
		if _, ok := skip[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// ListUnapprovedPhotos returns the moderation queue.
func (s *AdminService) ListUnapprovedPhotos(ctx context.Context) ([]models.PhotoForApproval, error) {
	return s.uow.Begin().Photos().ListUnapproved(ctx)
}

// ApprovePhoto marks the photo approved and makes it the owner's main photo
// when the owner has none.
func (s *AdminService) ApprovePhoto(ctx context.Context, photoID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "AdminService", "ApprovePhoto", attribute.Int("photo.id", int(photoID)))
	defer func() { observability.EndSpan(span, err) }()

	uow := s.uow.Begin()
	photo, err := uow.Photos().GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	owner, err := uow.Users().GetByPhotoID(ctx, photoID)
	if err != nil {
		return err
	}

	changed := false
	if !photo.IsApproved {
		photo.IsApproved = true
		changed = true
	}
	if owner.MainPhoto() == nil {
		photo.IsMain = true
		changed = true
	}
	if changed {
		uow.Photos().Update(photo)
	}

	ok, err := uow.Complete(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewOperationError("Failed to approve photo", nil)
	}

	observability.PhotosModerated.WithLabelValues("approved").Inc()
	return nil
}

// RejectPhoto removes the photo. A photo held in the remote store is only
// removed once the store confirms the asset deletion; otherwise the record is
// kept and the call still succeeds.
func (s *AdminService) RejectPhoto(ctx context.Context, photoID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "AdminService", "RejectPhoto", attribute.Int("photo.id", int(photoID)))
	defer func() { observability.EndSpan(span, err) }()

	uow := s.uow.Begin()
	photo, err := uow.Photos().GetByID(ctx, photoID)
	if err != nil {
		return err
	}

	remove := true
	if photo.PublicID != nil && *photo.PublicID != "" {
		remove = s.deleteRemote(ctx, photo)
	}
	if remove {
		uow.Photos().Remove(photo)
	}

	if _, err := uow.Complete(ctx); err != nil {
		return err
	}
	if remove {
		observability.PhotosModerated.WithLabelValues("rejected").Inc()
	}
	return nil
}

func (s *AdminService) deleteRemote(ctx context.Context, photo *models.Photo) bool {
	dctx, cancel := context.WithTimeout(ctx, s.deleteTimeout)
	defer cancel()

	res, err := s.assets.DeletePhoto(dctx, *photo.PublicID)
	if err != nil || !res.OK() {
		attrs := []any{"photo_id", photo.ID, "public_id", *photo.PublicID, "result", res.Result}
		if err != nil {
			attrs = append(attrs, "error", err.Error())
		}
		middleware.Logger.WarnContext(ctx, "remote photo deletion not confirmed, keeping record", attrs...)
		observability.PhotosModerated.WithLabelValues("skipped").Inc()
		return false
	}
	return true
}
