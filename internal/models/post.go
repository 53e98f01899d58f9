package models

import "time"

// Post is an authored entry in a feed.
//
// CreatedAt is the publication timestamp: assigned by the server on insert
// and never updated afterwards (repository updates touch only the mutable
// columns). The FK rules are explicit: deleting the author removes the post,
// deleting the group only detaches it (GroupID goes NULL).
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Text      string `gorm:"type:text;not null" json:"text"`
	ImagePath string `gorm:"size:255" json:"image_path,omitempty"`

	AuthorID uint `gorm:"not null;index" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`

	GroupID *uint  `gorm:"index" json:"group_id,omitempty"`
	Group   *Group `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"group,omitempty"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}
