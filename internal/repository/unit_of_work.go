// Package repository implements the data access layer for the application.
//
// Reads go straight to the database. Mutations are staged on a UnitOfWork and
// only reach storage when Complete applies them inside one transaction.
package repository

import (
	"context"
	"sync"

	"heartline/internal/models"

	"gorm.io/gorm"
)

// stagedOp applies one mutation and reports the rows it touched.
type stagedOp func(tx *gorm.DB) (int64, error)

// changeSet collects staged mutations for one unit of work.
type changeSet struct {
	mu  sync.Mutex
	ops []stagedOp
}

func (c *changeSet) stage(op stagedOp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, op)
}

func (c *changeSet) pending() []stagedOp {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]stagedOp, len(c.ops))
	copy(out, c.ops)
	return out
}

func (c *changeSet) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}

func (c *changeSet) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
}

// UnitOfWork groups the repositories used by one request and commits their
// staged changes atomically.
type UnitOfWork interface {
	Users() UserRepository
	Photos() PhotoRepository
	Likes() LikeRepository
	Messages() MessageRepository

	// Complete applies every staged change in a single transaction and
	// reports whether at least one row changed.
	Complete(ctx context.Context) (bool, error)
	// HasChanges reports whether any mutation is staged.
	HasChanges() bool
}

// UnitOfWorkFactory hands out a fresh unit per request.
type UnitOfWorkFactory interface {
	Begin() UnitOfWork
}

type unitOfWorkFactory struct {
	db *gorm.DB
}

// NewUnitOfWorkFactory returns a factory whose units share db.
func NewUnitOfWorkFactory(db *gorm.DB) UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

func (f *unitOfWorkFactory) Begin() UnitOfWork {
	return NewUnitOfWork(f.db)
}

type unitOfWork struct {
	db      *gorm.DB
	changes *changeSet

	users    UserRepository
	photos   PhotoRepository
	likes    LikeRepository
	messages MessageRepository
}

// NewUnitOfWork returns a unit with an empty change set.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	cs := &changeSet{}
	return &unitOfWork{
		db:       db,
		changes:  cs,
		users:    &userRepository{db: db, changes: cs},
		photos:   &photoRepository{db: db, changes: cs},
		likes:    &likeRepository{db: db, changes: cs},
		messages: &messageRepository{db: db, changes: cs},
	}
}

func (u *unitOfWork) Users() UserRepository       { return u.users }
func (u *unitOfWork) Photos() PhotoRepository     { return u.photos }
func (u *unitOfWork) Likes() LikeRepository       { return u.likes }
func (u *unitOfWork) Messages() MessageRepository { return u.messages }

func (u *unitOfWork) HasChanges() bool {
	return u.changes.len() > 0
}

func (u *unitOfWork) Complete(ctx context.Context) (bool, error) {
	ops := u.changes.pending()
	if len(ops) == 0 {
		return false, nil
	}

	var affected int64
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			n, err := op(tx)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return false, models.NewOperationError("Record already exists", err)
		}
		return false, models.NewOperationError("Failed to save changes", err)
	}

	u.changes.reset()
	return affected > 0, nil
}
