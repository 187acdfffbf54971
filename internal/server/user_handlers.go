package server

import (
	"fmt"

	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /users?q=
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 100)
	users, err := s.userService.SearchUsers(c.UserContext(), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	profile, err := s.userService.GetProfile(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// ShowFollowing handles GET /users/:id/following
func (s *Server) ShowFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.socialService.Following(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// ShowFollowers handles GET /users/:id/followers
func (s *Server) ShowFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.socialService.Followers(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// ShowLikes handles GET /users/:id/likes
func (s *Server) ShowLikes(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	messages, err := s.socialService.Likes(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(messages)
}

// UpdateProfile handles PATCH /users/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = currentUserID(c)

	uow := s.newUnitOfWork()
	user, err := s.userService.UpdateProfile(c.UserContext(), uow, req)
	if err != nil {
		return respondError(c, err)
	}
	if err := uow.Commit(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteAccount handles POST /users/delete
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	uow := s.newUnitOfWork()
	if err := s.userService.DeleteUser(c.UserContext(), uow, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	if err := uow.Commit(c.UserContext()); err != nil {
		return respondError(c, err)
	}

	s.revokeToken(c.UserContext(), bearerToken(c))
	if err := s.logout(c); err != nil {
		return respondError(c, err)
	}
	return c.Redirect("/signup", fiber.StatusFound)
}

func profilePath(userID uint) string {
	return fmt.Sprintf("/users/%d", userID)
}
