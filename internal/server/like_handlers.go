package server

import (
	"heartline/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/likes/:targetUserId. It likes the target when
// no like exists and removes the like otherwise.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "targetUserId")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	liked, err := s.likeService.ToggleLike(ctx, currentUserID(c), targetID)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// GetCurrentUserLikeIDs handles GET /api/likes/list.
func (s *Server) GetCurrentUserLikeIDs(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	ids, err := s.likeService.ListLikeIDs(ctx, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(ids)
}

// GetUserLikes handles GET /api/likes?predicate=&pageNumber=&pageSize=.
// The page metadata is returned in the Pagination header.
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	params := models.LikesParams{
		PaginationParams: models.PaginationParams{
			PageNumber: c.QueryInt("pageNumber", 1),
			PageSize:   c.QueryInt("pageSize", models.DefaultPageSize),
		},
		// Always the caller; never taken from the query.
		UserID:    currentUserID(c),
		Predicate: models.LikesPredicate(c.Query("predicate")),
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := s.likeService.ListUserLikes(ctx, params)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	if err := setPaginationHeader(c, page.Header()); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(page.Items)
}
