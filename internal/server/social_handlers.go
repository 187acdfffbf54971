package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /users/follow/:id
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followedID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	me := currentUserID(c)

	uow := s.newUnitOfWork()
	if err := s.socialService.Follow(c.UserContext(), uow, me, followedID); err != nil {
		return respondError(c, err)
	}
	if err := uow.Commit(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.Redirect(profilePath(me)+"/following", fiber.StatusFound)
}

// StopFollowing handles POST /users/stop-following/:id
func (s *Server) StopFollowing(c *fiber.Ctx) error {
	followedID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	me := currentUserID(c)

	uow := s.newUnitOfWork()
	if err := s.socialService.Unfollow(c.UserContext(), uow, me, followedID); err != nil {
		return respondError(c, err)
	}
	if err := uow.Commit(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.Redirect(profilePath(me)+"/following", fiber.StatusFound)
}

// ToggleLike handles POST /users/add_like/:id. Authors cannot like their own
// messages through the API.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	messageID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	me := currentUserID(c)

	msg, err := s.messageService.GetMessage(c.UserContext(), messageID)
	if err != nil {
		return respondError(c, err)
	}
	if msg.UserID == me {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": unauthorizedMessage})
	}

	uow := s.newUnitOfWork()
	if _, err := s.socialService.ToggleLike(c.UserContext(), uow, me, messageID); err != nil {
		return respondError(c, err)
	}
	if err := uow.Commit(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.Redirect("/", fiber.StatusFound)
}
