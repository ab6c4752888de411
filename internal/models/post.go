package models

import (
	"time"
)

// PostStatus represents the publication state of a post.
type PostStatus string

const (
	// PostStatusDraft is the initial state for a new post.
	PostStatusDraft PostStatus = "draft"
	// PostStatusPublished marks a post visible to readers.
	PostStatusPublished PostStatus = "published"
	// PostStatusArchived marks a post hidden from the main feed but kept.
	PostStatusArchived PostStatus = "archived"
	// PostStatusDeleted marks a post removed by its author.
	PostStatusDeleted PostStatus = "deleted"
)

// Valid reports whether s is one of the known post statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived, PostStatusDeleted:
		return true
	}
	return false
}

// Post is the root of the post aggregate: the post row together with its
// author, category, and deduplicated tag set.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Title      string     `gorm:"not null" json:"title"`
	Text       string     `gorm:"not null" json:"text"`
	Summary    string     `gorm:"size:300" json:"summary"`
	CategoryID uint       `gorm:"not null;index" json:"category_id"`
	Category   Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Status     PostStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Tags       []Tag      `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

// Category groups posts under a unique name. PostCount is computed at query
// time, never stored.
type Category struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	PostCount int64      `gorm:"-" json:"post_count"`
}

// Tag labels posts with a unique name. PostCount is computed at query time.
type Tag struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	PostCount int64      `gorm:"-" json:"post_count"`
}
