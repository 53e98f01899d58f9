package server

import (
	"bytes"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Index renders one page of the site-wide feed. The rendered HTML is cached
// for the configured TTL and served verbatim on a hit, so freshly published
// posts may lag behind by up to the TTL.
func (s *Server) Index(c *fiber.Ctx) error {
	pageNum := c.QueryInt("page", 1)
	key := cache.IndexKey(pageNum)

	ctx := c.UserContext()
	if body, ok := s.pageCache.Get(ctx, key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(body)
	}

	page, err := s.feedService.GlobalPage(ctx, pageNum)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = s.views.Render(&buf, "index", fiber.Map{
		"Title": "Latest posts",
		"Page":  page,
	}, "layouts/base")
	if err != nil {
		return models.NewInternalError(err)
	}

	body := buf.String()
	s.pageCache.Set(ctx, key, body)

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(body)
}

// GroupPosts renders one page of a group's feed.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	pageNum := c.QueryInt("page", 1)

	group, page, err := s.feedService.GroupPage(c.UserContext(), c.Params("slug"), pageNum)
	if err != nil {
		return err
	}

	return c.Render("group", fiber.Map{
		"Title": group.Title,
		"Group": group,
		"Page":  page,
	})
}

// Profile renders an author's page: their info, follower counts and one page
// of their posts.
func (s *Server) Profile(c *fiber.Ctx) error {
	pageNum := c.QueryInt("page", 1)
	username := c.Params("username")

	requesterID, _ := s.currentUserID(c)

	ctx := c.UserContext()
	author, page, following, err := s.feedService.AuthorPage(ctx, username, requesterID, pageNum)
	if err != nil {
		return err
	}

	followers, err := s.followRepo.CountFollowers(ctx, author.ID)
	if err != nil {
		return err
	}
	followees, err := s.followRepo.CountFollowing(ctx, author.ID)
	if err != nil {
		return err
	}

	return c.Render("profile", fiber.Map{
		"Title":         author.Username,
		"Author":        author,
		"Page":          page,
		"Following":     following,
		"Followers":     followers,
		"Followees":     followees,
		"Authenticated": requesterID != 0,
		"IsOwner":       requesterID == author.ID,
	})
}

// FollowIndex renders one page of posts authored by people the viewer
// follows.
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	pageNum := c.QueryInt("page", 1)
	userID := c.Locals("userID").(uint)

	page, err := s.feedService.FollowingPage(c.UserContext(), userID, pageNum)
	if err != nil {
		return err
	}

	return c.Render("follow", fiber.Map{
		"Title": "My feed",
		"Page":  page,
	})
}

// AboutAuthor renders the static author page.
func (s *Server) AboutAuthor(c *fiber.Ctx) error {
	return c.Render("about/author", fiber.Map{"Title": "About the author"})
}

// AboutTech renders the static technology page.
func (s *Server) AboutTech(c *fiber.Ctx) error {
	return c.Render("about/tech", fiber.Map{"Title": "Technologies"})
}
