package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumGroups   int
	NumPosts    int
	ShouldClean bool
}

var groupTitles = []string{
	"Travel notes", "Kitchen experiments", "City sketches", "Night reading",
	"Slow mornings", "Field recordings", "Paper and ink", "Small victories",
	"Backyard astronomy", "Weekend projects", "Quiet places", "Found photography",
}

// Run populates the database with users, groups, posts, comments and a
// follow mesh. It is idempotent only when ShouldClean is set.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumGroups <= 0 || opts.NumGroups > len(groupTitles) {
		opts.NumGroups = 6
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 200
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("cleaning database: %w", err)
		}
	}

	factory, err := NewFactory(db)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users (password %q)", len(users), demoPassword)

	groups := make([]*models.Group, 0, opts.NumGroups)
	for i := 0; i < opts.NumGroups; i++ {
		group, err := factory.CreateGroup(groupTitles[i])
		if err != nil {
			return fmt.Errorf("creating group: %w", err)
		}
		groups = append(groups, group)
	}
	log.Printf("seeded %d groups", len(groups))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[factory.rand.Intn(len(users))]

		// roughly a third of posts go without a group
		var group *models.Group
		if factory.rand.Intn(3) != 0 {
			group = groups[factory.rand.Intn(len(groups))]
		}

		post, err := factory.CreatePost(author, group)
		if err != nil {
			return fmt.Errorf("creating post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts", len(posts))

	comments := 0
	for _, post := range posts {
		for i := factory.rand.Intn(4); i > 0; i-- {
			commenter := users[factory.rand.Intn(len(users))]
			if _, err := factory.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("seeded %d comments", comments)

	// follow mesh: everyone follows a handful of random authors
	follows := 0
	for _, follower := range users {
		for i := factory.rand.Intn(6) + 1; i > 0; i-- {
			author := users[factory.rand.Intn(len(users))]
			if err := factory.CreateFollow(follower, author); err != nil {
				return fmt.Errorf("creating follow: %w", err)
			}
			follows++
		}
	}
	log.Printf("seeded follow mesh (%d attempts)", follows)

	return nil
}

// Clean removes all seeded rows, children first.
func Clean(db *gorm.DB) error {
	for _, model := range []any{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
