package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Folder is a user-owned, ordered collection of recipe references. Membership
// does not own the recipes.
type Folder struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"not null;index;size:64" json:"user"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsPublic    bool      `gorm:"not null;default:false;index" json:"isPublic"`
	Recipes     []string  `gorm:"serializer:json;type:text" json:"recipes"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an opaque id.
func (f *Folder) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Recipes == nil {
		f.Recipes = []string{}
	}
	return nil
}

// AfterFind keeps a nil recipe list from rendering as JSON null.
func (f *Folder) AfterFind(_ *gorm.DB) error {
	if f.Recipes == nil {
		f.Recipes = []string{}
	}
	return nil
}

// HasRecipe reports whether recipeID is a member.
func (f *Folder) HasRecipe(recipeID string) bool {
	for _, id := range f.Recipes {
		if id == recipeID {
			return true
		}
	}
	return false
}

// FolderDetail is a folder with its member recipes resolved in folder order.
// MissingRecipes lists member ids that no longer resolve.
type FolderDetail struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	IsPublic       bool      `json:"isPublic"`
	Recipes        []*Recipe `json:"recipes"`
	MissingRecipes []string  `json:"missingRecipes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
