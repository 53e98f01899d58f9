package seed

import (
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
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

func TestRunPopulatesEverything(t *testing.T) {
	t.Parallel()

	db := setupSeedDB(t)
	require.NoError(t, Run(db, Options{NumUsers: 5, NumGroups: 3, NumPosts: 12}))

	var users, groups, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.EqualValues(t, 5, users)
	assert.EqualValues(t, 3, groups)
	assert.EqualValues(t, 12, posts)

	// the follow mesh never contains self-edges
	var selfEdges int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = author_id").Count(&selfEdges).Error)
	assert.Zero(t, selfEdges)
}

func TestRunWithCleanIsRepeatable(t *testing.T) {
	t.Parallel()

	db := setupSeedDB(t)
	require.NoError(t, Run(db, Options{NumUsers: 3, NumGroups: 2, NumPosts: 5}))
	require.NoError(t, Run(db, Options{NumUsers: 3, NumGroups: 2, NumPosts: 5, ShouldClean: true}))

	var users, groups int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	assert.EqualValues(t, 3, users)
	assert.EqualValues(t, 2, groups)
}
