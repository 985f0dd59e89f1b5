package service

import (
	"context"
	"testing"

	"heartline/internal/models"
	"heartline/internal/repository"
	"heartline/internal/storage"

	"gorm.io/gorm"
)

type assetStoreStub struct {
	result string
	err    error
	calls  []string
}

func (s *assetStoreStub) DeletePhoto(ctx context.Context, publicID string) (storage.DeletionResult, error) {
	s.calls = append(s.calls, publicID)
	if _, ok := ctx.Deadline(); !ok {
		panic("remote deletion must run with a deadline")
	}
	return storage.DeletionResult{Result: s.result}, s.err
}

// roleRepoStub delegates to a real repository unless a failure is injected.
type roleRepoStub struct {
	repository.RoleRepository
	addErr    error
	removeErr error
	removed   bool
}

func (r *roleRepoStub) AddToRoles(ctx context.Context, userID uint, roles []string) error {
	if r.addErr != nil && len(roles) > 0 {
		return r.addErr
	}
	return r.RoleRepository.AddToRoles(ctx, userID, roles)
}

func (r *roleRepoStub) RemoveFromRoles(ctx context.Context, userID uint, roles []string) error {
	if len(roles) > 0 {
		r.removed = true
	}
	if r.removeErr != nil && len(roles) > 0 {
		return r.removeErr
	}
	return r.RoleRepository.RemoveFromRoles(ctx, userID, roles)
}

// uowStub overrides Complete on a real unit of work.
type uowStub struct {
	repository.UnitOfWork
	completeFn func(ctx context.Context) (bool, error)
}

func (u *uowStub) Complete(ctx context.Context) (bool, error) {
	return u.completeFn(ctx)
}

type uowFactoryStub struct {
	beginFn func() repository.UnitOfWork
}

func (f uowFactoryStub) Begin() repository.UnitOfWork { return f.beginFn() }

// neverChanges is a factory whose units report zero affected rows.
func neverChanges(db *gorm.DB) repository.UnitOfWorkFactory {
	return uowFactoryStub{beginFn: func() repository.UnitOfWork {
		return &uowStub{
			UnitOfWork: repository.NewUnitOfWork(db),
			completeFn: func(context.Context) (bool, error) { return false, nil },
		}
	}}
}

func countPhotos(t *testing.T, db *gorm.DB, id uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Photo{}).Where("id = ?", id).Count(&n).Error; err != nil {
		t.Fatalf("count photos: %v", err)
	}
	return n
}

func loadPhoto(t *testing.T, db *gorm.DB, id uint) models.Photo {
	t.Helper()
	var p models.Photo
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("load photo: %v", err)
	}
	return p
}
