package models

import "time"

// Follow is a directed edge: the follower's personal feed includes the
// followed author's posts.
//
// Uniqueness is enforced at the application layer (the service checks
// before insert), not by a DB constraint. Both endpoints cascade on user
// deletion so no dangling edges survive an account removal.
type Follow struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FollowerID uint `gorm:"not null;index:idx_follows_follower" json:"follower_id"`
	Follower   User `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	AuthorID uint `gorm:"not null;index:idx_follows_author" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
