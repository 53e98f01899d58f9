// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// demoPassword is the shared password for all seeded accounts.
const demoPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand

	// one bcrypt hash shared by all seeded users; hashing per user makes
	// large seeds unbearably slow
	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) (*Factory, error) {
	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	return &Factory{
		db:           db,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}, nil
}

// CreateUser persists a fake user account.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()

	user := &models.User{
		Username:    strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, f.rand.Intn(1000))),
		Email:       strings.ToLower(fmt.Sprintf("%s.%s%d@%s", first, last, f.rand.Intn(1000), gofakeit.DomainName())),
		Password:    f.passwordHash,
		DisplayName: first + " " + last,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGroup persists a group with a slug derived from its title.
func (f *Factory) CreateGroup(title string) (*models.Group, error) {
	group := &models.Group{
		Title:       title,
		Slug:        slugify(title),
		Description: gofakeit.Sentence(12),
	}
	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// CreatePost persists a post with a publication date spread over the last 90
// days so feeds look lived-in.
func (f *Factory) CreatePost(author *models.User, group *models.Group) (*models.Post, error) {
	post := &models.Post{
		Text:     gofakeit.Paragraph(1, 3, 8, "\n\n"),
		AuthorID: author.ID,
	}
	if group != nil {
		post.GroupID = &group.ID
	}

	daysBack := f.rand.Intn(90)
	minsBack := f.rand.Intn(24 * 60)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(-time.Duration(minsBack) * time.Minute)

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on the post, dated after the post itself.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     gofakeit.Sentence(f.rand.Intn(15) + 3),
		PostID:   post.ID,
		AuthorID: author.ID,
	}

	gap := time.Duration(f.rand.Intn(72)+1) * time.Hour
	if at := post.CreatedAt.Add(gap); at.Before(time.Now()) {
		comment.CreatedAt = at
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFollow persists a follow edge. Self-follows and duplicates are
// skipped silently so mesh generation can fire blindly.
func (f *Factory) CreateFollow(follower, author *models.User) error {
	if follower.ID == author.ID {
		return nil
	}

	var count int64
	err := f.db.Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", follower.ID, author.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return f.db.Create(&models.Follow{
		FollowerID: follower.ID,
		AuthorID:   author.ID,
	}).Error
}

func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	return strings.Trim(slug, "-")
}
