package server

import (
	"heartline/internal/models"
	"heartline/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateMessage handles POST /api/messages.
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	var req service.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := s.messageService.SendMessage(ctx, currentUserID(c), req)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetMessageThread handles GET /api/messages/thread/:username.
func (s *Server) GetMessageThread(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	thread, err := s.messageService.GetThread(ctx, currentUserID(c), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err, fiber.StatusNotFound)
	}
	return c.JSON(thread)
}
