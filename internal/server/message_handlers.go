package server

import (
	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateMessage handles POST /messages/new
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	var req service.MessageInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	me := currentUserID(c)

	uow := s.newUnitOfWork()
	if _, err := s.messageService.CreateMessage(c.UserContext(), uow, me, req); err != nil {
		return respondError(c, err)
	}
	if err := uow.Commit(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.Redirect(profilePath(me), fiber.StatusFound)
}

// GetMessage handles GET /messages/:id
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	msg, err := s.messageService.GetMessage(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msg)
}

// DeleteMessage handles POST /messages/:id/delete
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	me := currentUserID(c)

	uow := s.newUnitOfWork()
	if err := s.messageService.DeleteMessage(c.UserContext(), uow, me, id); err != nil {
		return respondError(c, err)
	}
	if err := uow.Commit(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.Redirect(profilePath(me), fiber.StatusFound)
}
