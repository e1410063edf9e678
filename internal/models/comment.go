package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is attached to exactly one recipe and owned by one user. Name and
// Avatar are a snapshot of the author taken when the comment was written.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	RecipeID  string    `gorm:"not null;index;size:36" json:"recipe"`
	UserID    string    `gorm:"not null;index;size:64" json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     Likes     `gorm:"serializer:json;type:text" json:"likes"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an opaque id.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Likes == nil {
		c.Likes = Likes{}
	}
	return nil
}

// AfterFind keeps a nil likes list from rendering as JSON null.
func (c *Comment) AfterFind(_ *gorm.DB) error {
	if c.Likes == nil {
		c.Likes = Likes{}
	}
	return nil
}
