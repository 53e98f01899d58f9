package server

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// postURL is the canonical address of a post.
func postURL(username string, postID uint) string {
	return fmt.Sprintf("/%s/%d/", username, postID)
}

// parsePostID extracts the postID route parameter as a positive uint.
func (s *Server) parsePostID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("postID")
	if err != nil || id <= 0 {
		return 0, models.NewNotFoundError("Post", c.Params("postID"))
	}
	return uint(id), nil
}

// parsePostForm reads the submitted post form. The image is optional; a
// missing file is not an error.
func (s *Server) parsePostForm(c *fiber.Ctx) *validation.PostForm {
	form := &validation.PostForm{
		Text: c.FormValue("text"),
	}

	if raw := c.FormValue("group"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			groupID := uint(id)
			form.GroupID = &groupID
		}
	}

	if fh, err := c.FormFile("image"); err == nil {
		form.Image = fh
	}

	return form
}

// saveImage stores an uploaded image under the media directory with a
// generated name and returns the stored relative path.
func (s *Server) saveImage(c *fiber.Ctx, fh *multipart.FileHeader) (string, error) {
	dir := filepath.Join(s.config.MediaDir, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	if err := c.SaveFile(fh, filepath.Join(dir, name)); err != nil {
		return "", models.NewInternalError(err)
	}
	return filepath.Join("posts", name), nil
}

// renderPostForm renders the shared new/edit post form.
func (s *Server) renderPostForm(c *fiber.Ctx, data fiber.Map) error {
	groups, err := s.groupRepo.List(c.UserContext())
	if err != nil {
		return err
	}
	data["Groups"] = groups
	return c.Render("post_form", data)
}

// NewPostForm renders the post creation form.
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	return s.renderPostForm(c, fiber.Map{
		"Title":  "New post",
		"Action": "/new/",
		"Form":   &validation.PostForm{},
	})
}

// CreatePost handles the post creation form submission. Invalid input
// re-renders the form with field errors; success redirects to the index.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	form := s.parsePostForm(c)
	if errs := form.Validate(); errs != nil {
		return s.renderPostForm(c, fiber.Map{
			"Title":  "New post",
			"Action": "/new/",
			"Form":   form,
			"Errors": errs,
		})
	}

	imagePath := ""
	if form.Image != nil {
		path, err := s.saveImage(c, form.Image)
		if err != nil {
			return err
		}
		imagePath = path
	}

	_, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:  userID,
		Text:      form.Text,
		GroupID:   form.GroupID,
		ImagePath: imagePath,
	})
	if err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}

// PostDetail renders a single post with its comments.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return err
	}

	post, err := s.postService.GetByAuthorAndID(c.UserContext(), c.Params("username"), postID)
	if err != nil {
		return err
	}

	viewerID, authenticated := s.currentUserID(c)

	return c.Render("post_detail", fiber.Map{
		"Title":         fmt.Sprintf("Post by %s", post.Author.Username),
		"Post":          post,
		"Comments":      post.Comments,
		"Authenticated": authenticated,
		"CanEdit":       authenticated && viewerID == post.AuthorID,
	})
}

// EditPostForm renders the edit form for a post. A viewer who is not the
// author is silently sent to the post page instead.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return err
	}
	username := c.Params("username")

	post, err := s.postService.GetByAuthorAndID(c.UserContext(), username, postID)
	if err != nil {
		return err
	}

	userID := c.Locals("userID").(uint)
	if post.AuthorID != userID {
		return c.Redirect(postURL(username, postID), fiber.StatusFound)
	}

	form := &validation.PostForm{Text: post.Text, GroupID: post.GroupID}
	return s.renderPostForm(c, fiber.Map{
		"Title":  "Edit post",
		"Action": fmt.Sprintf("/%s/%d/edit/", username, postID),
		"IsEdit": true,
		"Post":   post,
		"Form":   form,
	})
}

// UpdatePost handles the edit form submission. Non-authors are silently
// redirected to the post page with nothing changed.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return err
	}
	username := c.Params("username")

	post, err := s.postService.GetByAuthorAndID(c.UserContext(), username, postID)
	if err != nil {
		return err
	}

	userID := c.Locals("userID").(uint)
	if post.AuthorID != userID {
		return c.Redirect(postURL(username, postID), fiber.StatusFound)
	}

	form := s.parsePostForm(c)
	if errs := form.Validate(); errs != nil {
		return s.renderPostForm(c, fiber.Map{
			"Title":  "Edit post",
			"Action": fmt.Sprintf("/%s/%d/edit/", username, postID),
			"IsEdit": true,
			"Post":   post,
			"Form":   form,
			"Errors": errs,
		})
	}

	imagePath := ""
	if form.Image != nil {
		path, err := s.saveImage(c, form.Image)
		if err != nil {
			return err
		}
		imagePath = path
	}

	_, err = s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		EditorID:  userID,
		PostID:    postID,
		Text:      form.Text,
		GroupID:   form.GroupID,
		ImagePath: imagePath,
	})
	if err != nil {
		return err
	}

	return c.Redirect(postURL(username, postID), fiber.StatusFound)
}
