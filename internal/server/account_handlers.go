package server

import (
	"heartline/internal/models"
	"heartline/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/account/register.
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := s.accountService.Register(ctx, req)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// Login handles POST /api/account/login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := s.accountService.Login(ctx, req)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusNotFound)
	}
	return c.JSON(account)
}
