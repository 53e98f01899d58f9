package server

import (
	"inkwell/internal/service"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles the comment form submission on a post page. Invalid
// input re-renders the post page with the field error; success redirects
// back to the post.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return err
	}
	username := c.Params("username")
	userID := c.Locals("userID").(uint)

	form := &validation.CommentForm{Text: c.FormValue("text")}
	if errs := form.Validate(); errs != nil {
		post, err := s.postService.GetByAuthorAndID(c.UserContext(), username, postID)
		if err != nil {
			return err
		}
		return c.Render("post_detail", fiber.Map{
			"Title":         "Post by " + post.Author.Username,
			"Post":          post,
			"Comments":      post.Comments,
			"Authenticated": true,
			"CanEdit":       userID == post.AuthorID,
			"Errors":        errs,
		})
	}

	_, err = s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		AuthorID: userID,
		Username: username,
		PostID:   postID,
		Text:     form.Text,
	})
	if err != nil {
		return err
	}

	return c.Redirect(postURL(username, postID), fiber.StatusFound)
}
