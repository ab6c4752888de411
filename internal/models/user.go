// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an author on the platform.
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"not null" json:"name"`
	Surname           string     `gorm:"not null" json:"surname"`
	Username          string     `gorm:"unique;not null" json:"username"`
	Email             string     `gorm:"unique;not null" json:"email"`
	PasswordHash      string     `gorm:"not null" json:"-"`
	ProfilePictureURL string     `json:"profile_picture_url"`
	RoleID            uint       `gorm:"not null;index" json:"role_id"`
	Role              Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	Posts             []Post     `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// Role is a named permission group (Admin, Author).
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Users     []User    `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

// Built-in role names.
const (
	RoleAdmin  = "Admin"
	RoleAuthor = "Author"
)
