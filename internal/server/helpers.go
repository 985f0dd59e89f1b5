package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode"

	"heartline/internal/middleware"
	"heartline/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PaginationHeader carries the JSON page metadata of paged listings.
const PaginationHeader = "Pagination"

// requestTimeout bounds the storage work of a single request.
const requestTimeout = 10 * time.Second

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// requestContext derives the per-request context used for service calls.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// The error message is derived from the parameter name (e.g. "photoId" ->
// "Invalid photo ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "targetUserId" -> "target user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentUserID returns the caller id stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// mapServiceError maps an application error code to an HTTP status.
// notFound is the status used for NOT_FOUND, which differs between routes.
func mapServiceError(err error, notFound int) int {
	appErr, ok := models.AsAppError(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation, models.CodeOperation:
		return fiber.StatusBadRequest
	case models.CodeNotFound:
		return notFound
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError writes err with the status mapServiceError picks.
// Unclassified errors are logged and hidden behind a generic message.
func respondServiceError(c *fiber.Ctx, err error, notFound int) error {
	status := mapServiceError(err, notFound)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "error", err)
		if _, ok := models.AsAppError(err); !ok {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// setPaginationHeader writes the page metadata as JSON into the Pagination header.
func setPaginationHeader(c *fiber.Ctx, header models.PaginationHeader) error {
	raw, err := json.Marshal(header)
	if err != nil {
		return err
	}
	c.Set(PaginationHeader, string(raw))
	return nil
}
