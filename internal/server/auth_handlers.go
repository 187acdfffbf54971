package server

import (
	"errors"

	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /signup. The new user is logged in on success.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	uow := s.newUnitOfWork()
	user, err := s.authService.Signup(c.UserContext(), uow, req)
	if err != nil {
		return respondError(c, err)
	}
	if err := uow.Commit(c.UserContext()); err != nil {
		if errors.Is(err, models.ErrIntegrity) {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewIntegrityError("Username or email already taken", nil))
		}
		return respondError(c, err)
	}

	return s.startSession(c, fiber.StatusCreated, user)
}

// Login handles POST /login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials."))
	}

	return s.startSession(c, fiber.StatusOK, user)
}

func (s *Server) startSession(c *fiber.Ctx, status int, user *models.User) error {
	if err := s.login(c, user.ID); err != nil {
		return respondError(c, err)
	}
	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /logout. A Bearer token sent along is revoked.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.revokeToken(c.UserContext(), bearerToken(c))
	if err := s.logout(c); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "You have successfully logged out."})
}

// Homepage handles GET /. Anonymous visitors get an empty feed.
func (s *Server) Homepage(c *fiber.Ctx) error {
	userID, ok, err := s.resolveUser(c)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return c.JSON(fiber.Map{"messages": []models.Message{}})
	}
	setCurrentUser(c, userID)

	p := parsePagination(c, 100)
	messages, err := s.messageService.HomeTimeline(c.UserContext(), userID, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}
