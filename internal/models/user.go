// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered author on the platform.
//
// Rows are hard-deleted: removing an account must also remove the user's
// posts, comments and follow edges through the FK cascade rules declared on
// the dependent models.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email       string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `gorm:"size:150" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
