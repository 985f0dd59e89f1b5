package service

import (
	"context"
	"fmt"

	"heartline/internal/models"
	"heartline/internal/observability"
	"heartline/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// LikeService provides the directed like relation between users.
type LikeService struct {
	uow repository.UnitOfWorkFactory
}

// NewLikeService returns a new LikeService.
func NewLikeService(uow repository.UnitOfWorkFactory) *LikeService {
	return &LikeService{uow: uow}
}

// ToggleLike flips whether sourceID likes targetID and reports whether the
// like exists afterwards.
func (s *LikeService) ToggleLike(ctx context.Context, sourceID, targetID uint) (liked bool, err error) {
	ctx, span := observability.StartSpan(ctx, "LikeService", "ToggleLike",
		attribute.Int("source.id", int(sourceID)), attribute.Int("target.id", int(targetID)))
	defer func() { observability.EndSpan(span, err) }()

	if sourceID == targetID {
		return false, models.NewValidationError("You cannot like yourself")
	}

	uow := s.uow.Begin()
	if _, err := uow.Users().GetByID(ctx, targetID); err != nil {
		return false, err
	}

	existing, err := uow.Likes().GetUserLike(ctx, sourceID, targetID)
	if err != nil {
		return false, err
	}

	action := "added"
	if existing == nil {
		uow.Likes().AddLike(&models.Like{SourceUserID: sourceID, TargetUserID: targetID})
		liked = true
	} else {
		uow.Likes().DeleteLike(existing)
		action = "removed"
	}

	ok, err := uow.Complete(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, models.NewOperationError("Failed to update like", nil)
	}

	observability.LikesToggled.WithLabelValues(action).Inc()
	return liked, nil
}

// ListLikeIDs returns the ids of every user userID likes.
func (s *LikeService) ListLikeIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.uow.Begin().Likes().GetCurrentUserLikeIDs(ctx, userID)
}

// ListUserLikes returns one page of users on the side of the relation named
// by params.Predicate. An empty predicate means PredicateLiked.
func (s *LikeService) ListUserLikes(ctx context.Context, params models.LikesParams) (models.PagedList[models.MemberDTO], error) {
	if params.Predicate == "" {
		params.Predicate = models.PredicateLiked
	}
	if !params.Predicate.Valid() {
		return models.PagedList[models.MemberDTO]{}, models.NewValidationError(
			fmt.Sprintf("Invalid predicate %q", string(params.Predicate)))
	}
	params.Normalize()
	return s.uow.Begin().Likes().GetUserLikes(ctx, params)
}
