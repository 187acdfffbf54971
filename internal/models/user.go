// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Default profile images used when a user leaves them blank.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents a Warbler account.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"type:text;unique;not null" json:"username"`
	Email          string    `gorm:"type:text;unique;not null" json:"email"`
	Password       string    `gorm:"type:text;not null" json:"-"`
	ImageURL       string    `gorm:"type:text" json:"image_url"`
	HeaderImageURL string    `gorm:"type:text" json:"header_image_url"`
	Bio            *string   `gorm:"type:text" json:"bio"`
	Location       *string   `gorm:"type:text" json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate fills blank image fields with the site defaults.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	u.ApplyImageDefaults()
	return nil
}

// ApplyImageDefaults replaces empty image URLs with the defaults.
func (u *User) ApplyImageDefaults() {
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = DefaultHeaderImageURL
	}
}

func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}
