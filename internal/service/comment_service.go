package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const maxCommentTextLen = 3000

// CommentService owns comment creation under a post.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

// AddCommentInput is the payload for a new comment.
type AddCommentInput struct {
	AuthorID uint
	Username string
	PostID   uint
	Text     string
}

// NewCommentService creates a CommentService.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// AddComment validates and persists a comment on the post addressed as
// /{username}/{post_id}/. The parent post must exist under that author.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	post, err := s.posts.GetByAuthorAndID(ctx, in.Username, in.PostID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxCommentTextLen {
		return nil, models.NewValidationError("Text too long")
	}

	comment := &models.Comment{
		Text:     in.Text,
		PostID:   post.ID,
		AuthorID: in.AuthorID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
