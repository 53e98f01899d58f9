package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const maxPostTextLen = 50000

// PostService owns post creation and author-only editing.
type PostService struct {
	posts repository.PostRepository
}

// CreatePostInput is the payload for a new post.
type CreatePostInput struct {
	AuthorID  uint
	Text      string
	GroupID   *uint
	ImagePath string
}

// UpdatePostInput is the payload for editing an existing post.
type UpdatePostInput struct {
	EditorID  uint
	PostID    uint
	Text      string
	GroupID   *uint
	ImagePath string
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// CreatePost validates and persists a new post. The publication timestamp is
// assigned by the store on insert.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxPostTextLen {
		return nil, models.NewValidationError("Text too long")
	}

	post := &models.Post{
		Text:      in.Text,
		AuthorID:  in.AuthorID,
		GroupID:   in.GroupID,
		ImagePath: in.ImagePath,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID)
}

// UpdatePost rewrites the mutable fields of a post on behalf of its author.
// A non-author editor gets an unauthorized error; the post is untouched.
// The publication timestamp is never modified.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return nil, models.NewUnauthorizedError("Only the author can edit a post")
	}

	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxPostTextLen {
		return nil, models.NewValidationError("Text too long")
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	if in.ImagePath != "" {
		post.ImagePath = in.ImagePath
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, in.PostID)
}

// GetByAuthorAndID resolves a post addressed as /{username}/{post_id}/.
func (s *PostService) GetByAuthorAndID(ctx context.Context, username string, postID uint) (*models.Post, error) {
	return s.posts.GetByAuthorAndID(ctx, username, postID)
}
