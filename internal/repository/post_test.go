package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with foreign keys enforced,
// so the FK referential actions behave like they do on Postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory DB and its pragmas stable
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{
		Title: "Group " + slug,
		Slug:  slug,
	}
	require.NoError(t, db.Create(group).Error)
	return group
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Text:      text,
		AuthorID:  author.ID,
		CreatedAt: at,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestPostListOrdering(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "writer")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	oldest := createTestPost(t, db, author, nil, "oldest", base)
	newest := createTestPost(t, db, author, nil, "newest", base.Add(2*time.Hour))
	middle := createTestPost(t, db, author, nil, "middle", base.Add(time.Hour))

	posts, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, newest.ID, posts[0].ID)
	assert.Equal(t, middle.ID, posts[1].ID)
	assert.Equal(t, oldest.ID, posts[2].ID)
}

func TestPostListOrderingTieBreak(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "writer")
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// identical timestamps: the later insert (higher id) wins
	first := createTestPost(t, db, author, nil, "first", at)
	second := createTestPost(t, db, author, nil, "second", at)

	posts, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestPostEagerLoadingAndCommentsCount(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "writer")
	commenter := createTestUser(t, db, "reader")
	group := createTestGroup(t, db, "essays")
	post := createTestPost(t, db, author, group, "with comments", time.Now())

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Comment{
			Text:     fmt.Sprintf("comment %d", i),
			PostID:   post.ID,
			AuthorID: commenter.ID,
		}).Error)
	}

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "writer", got.Author.Username)
	require.NotNil(t, got.Group)
	assert.Equal(t, "essays", got.Group.Slug)
	assert.Equal(t, 3, got.CommentsCount)
	require.Len(t, got.Comments, 3)
	assert.Equal(t, "reader", got.Comments[0].Author.Username)
}

func TestGetByAuthorAndID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "writer")
	other := createTestUser(t, db, "other")
	post := createTestPost(t, db, author, nil, "mine", time.Now())

	got, err := repo.GetByAuthorAndID(ctx, "writer", post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	// right id, wrong author: not found
	_, err = repo.GetByAuthorAndID(ctx, other.Username, post.ID)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	_, err = repo.GetByAuthorAndID(ctx, "nobody", post.ID)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestListByAuthorsEmptySet(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "writer")
	createTestPost(t, db, author, nil, "a post", time.Now())

	posts, err := repo.ListByAuthors(ctx, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)

	count, err := repo.CountByAuthors(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListByGroupFilters(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "writer")
	essays := createTestGroup(t, db, "essays")
	notes := createTestGroup(t, db, "notes")

	createTestPost(t, db, author, essays, "an essay", time.Now())
	createTestPost(t, db, author, notes, "a note", time.Now())
	createTestPost(t, db, author, nil, "ungrouped", time.Now())

	posts, err := repo.ListByGroup(ctx, essays.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "an essay", posts[0].Text)

	count, err := repo.CountByGroup(ctx, essays.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUpdateTouchesOnlyMutableColumns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "writer")
	group := createTestGroup(t, db, "essays")
	published := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	post := createTestPost(t, db, author, nil, "original", published)

	post.Text = "revised"
	post.GroupID = &group.ID
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised", got.Text)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, group.ID, *got.GroupID)
	assert.True(t, got.CreatedAt.Equal(published), "publication date must not move on edit")
}

func TestAuthorDeleteCascades(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "leaving")
	commenter := createTestUser(t, db, "staying")
	post := createTestPost(t, db, author, nil, "to be removed", time.Now())
	require.NoError(t, db.Create(&models.Comment{
		Text:     "on the doomed post",
		PostID:   post.ID,
		AuthorID: commenter.ID,
	}).Error)

	require.NoError(t, users.Delete(ctx, author.ID))

	var postCount, commentCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&commentCount).Error)
	assert.Zero(t, postCount, "author's posts must be removed with the author")
	assert.Zero(t, commentCount, "comments must follow their post")
}

func TestGroupDeleteDetachesPosts(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	groups := NewGroupRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "writer")
	group := createTestGroup(t, db, "doomed")
	post := createTestPost(t, db, author, group, "survives", time.Now())

	require.NoError(t, groups.Delete(ctx, group.ID))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID, "post must be detached, not deleted")
	assert.Equal(t, "survives", got.Text)
}
