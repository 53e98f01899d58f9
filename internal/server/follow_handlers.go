package server

import (
	"github.com/gofiber/fiber/v2"
)

// ProfileFollow subscribes the viewer to the author and returns to the
// author's page. Already-following and self-follow are silent no-ops.
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	username := c.Params("username")
	userID := c.Locals("userID").(uint)

	author, err := s.userService.GetByUsername(c.UserContext(), username)
	if err != nil {
		return err
	}

	if err := s.followService.Follow(c.UserContext(), userID, author.ID); err != nil {
		return err
	}

	return c.Redirect("/"+username+"/", fiber.StatusFound)
}

// ProfileUnfollow removes the viewer's subscription to the author and
// returns to the author's page. Not-following is a silent no-op.
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	username := c.Params("username")
	userID := c.Locals("userID").(uint)

	author, err := s.userService.GetByUsername(c.UserContext(), username)
	if err != nil {
		return err
	}

	if err := s.followService.Unfollow(c.UserContext(), userID, author.ID); err != nil {
		return err
	}

	return c.Redirect("/"+username+"/", fiber.StatusFound)
}
