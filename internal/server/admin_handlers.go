package server

import (
	"heartline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetUsersWithRoles handles GET /api/admin/users-with-roles.
func (s *Server) GetUsersWithRoles(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := s.adminService.ListUsersWithRoles(ctx)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(users)
}

// EditRoles handles POST /api/admin/edit-roles/:username?roles=a,b.
func (s *Server) EditRoles(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	username := c.Params("username")
	roles, err := s.adminService.EditRoles(ctx, username, c.Query("roles"))
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}

	middleware.Logger.InfoContext(ctx, "roles edited",
		"username", username, "roles", roles, "actor_id", currentUserID(c))
	return c.JSON(roles)
}

// GetPhotosForModeration handles GET /api/admin/photos-to-moderate.
func (s *Server) GetPhotosForModeration(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	photos, err := s.adminService.ListUnapprovedPhotos(ctx)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(photos)
}

// ApprovePhoto handles POST /api/admin/approve-photo/:photoId.
func (s *Server) ApprovePhoto(c *fiber.Ctx) error {
	photoID, err := s.parseID(c, "photoId")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.adminService.ApprovePhoto(ctx, photoID); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.SendStatus(fiber.StatusOK)
}

// RejectPhoto handles POST /api/admin/reject-photo/:photoId.
func (s *Server) RejectPhoto(c *fiber.Ctx) error {
	photoID, err := s.parseID(c, "photoId")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	if err := s.adminService.RejectPhoto(ctx, photoID); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.SendStatus(fiber.StatusOK)
}
