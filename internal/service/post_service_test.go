package service

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostValidation(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	svc := NewPostService(repository.NewPostRepository(db))
	ctx := context.Background()

	author := seedUser(t, db, "writer")

	_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Text: "   "})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	post, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Text: "a real post"})
	require.NoError(t, err)
	assert.Equal(t, "a real post", post.Text)
	assert.Equal(t, "writer", post.Author.Username)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestUpdatePostNonAuthorRejected(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	svc := NewPostService(repository.NewPostRepository(db))
	ctx := context.Background()

	author := seedUser(t, db, "writer")
	intruder := seedUser(t, db, "intruder")
	post := seedPost(t, db, author, "original", time.Now())

	_, err := svc.UpdatePost(ctx, UpdatePostInput{
		EditorID: intruder.ID,
		PostID:   post.ID,
		Text:     "hijacked",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "original", reloaded.Text, "a rejected edit must not touch the post")
}

func TestUpdatePostKeepsPublicationDate(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	svc := NewPostService(repository.NewPostRepository(db))
	ctx := context.Background()

	author := seedUser(t, db, "writer")
	published := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	post := seedPost(t, db, author, "original", published)

	updated, err := svc.UpdatePost(ctx, UpdatePostInput{
		EditorID: author.ID,
		PostID:   post.ID,
		Text:     "revised",
	})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Text)
	assert.True(t, updated.CreatedAt.Equal(published))
}

func TestAddComment(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), repository.NewPostRepository(db))
	ctx := context.Background()

	author := seedUser(t, db, "writer")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author, "discuss", time.Now())

	comment, err := svc.AddComment(ctx, AddCommentInput{
		AuthorID: reader.ID,
		Username: "writer",
		PostID:   post.ID,
		Text:     "great stuff",
	})
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)

	// empty text rejected
	_, err = svc.AddComment(ctx, AddCommentInput{
		AuthorID: reader.ID,
		Username: "writer",
		PostID:   post.ID,
		Text:     " ",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	// post addressed under the wrong author does not exist
	_, err = svc.AddComment(ctx, AddCommentInput{
		AuthorID: reader.ID,
		Username: "reader",
		PostID:   post.ID,
		Text:     "misaddressed",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
