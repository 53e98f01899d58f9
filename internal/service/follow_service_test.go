package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsIdempotent(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	svc := NewFollowService(repository.NewFollowRepository(db))
	ctx := context.Background()

	reader := seedUser(t, db, "reader")
	writer := seedUser(t, db, "writer")

	require.NoError(t, svc.Follow(ctx, reader.ID, writer.ID))
	require.NoError(t, svc.Follow(ctx, reader.ID, writer.ID))
	require.NoError(t, svc.Follow(ctx, reader.ID, writer.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "repeated follows must not stack edges")
}

func TestSelfFollowIsSilentNoOp(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	svc := NewFollowService(repository.NewFollowRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "loner")

	require.NoError(t, svc.Follow(ctx, user.ID, user.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	svc := NewFollowService(repository.NewFollowRepository(db))
	ctx := context.Background()

	reader := seedUser(t, db, "reader")
	writer := seedUser(t, db, "writer")

	// unfollow without a prior follow
	require.NoError(t, svc.Unfollow(ctx, reader.ID, writer.ID))

	require.NoError(t, svc.Follow(ctx, reader.ID, writer.ID))
	require.NoError(t, svc.Unfollow(ctx, reader.ID, writer.ID))
	require.NoError(t, svc.Unfollow(ctx, reader.ID, writer.ID))

	following, err := svc.IsFollowing(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.False(t, following)
}
