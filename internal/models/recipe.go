package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultForkModifications is recorded on a fork created without a description of its changes.
const DefaultForkModifications = "Forked recipe"

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name     string `json:"name" yaml:"name"`
	Quantity string `json:"quantity" yaml:"quantity"`
	Unit     string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Instruction is one numbered step.
type Instruction struct {
	Step int    `json:"step" yaml:"step"`
	Text string `json:"text" yaml:"text"`
}

// Recipe is a user-owned recipe document. Lists are embedded in the document.
type Recipe struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	UserID         string        `gorm:"not null;index;size:64" json:"user"`
	Author         *User         `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Title          string        `gorm:"not null" json:"title"`
	Description    string        `gorm:"type:text" json:"description"`
	Ingredients    []Ingredient  `gorm:"serializer:json;type:text" json:"ingredients"`
	Instructions   []Instruction `gorm:"serializer:json;type:text" json:"instructions"`
	CookingTime    int           `json:"cookingTime"`
	Servings       int           `json:"servings"`
	Image          string        `json:"image,omitempty"`
	Tags           []string      `gorm:"serializer:json;type:text" json:"tags"`
	ParentRecipeID *string       `gorm:"index;size:36" json:"parentRecipe"`
	Parent         *Recipe       `gorm:"foreignKey:ParentRecipeID" json:"parent,omitempty"`
	IsForked       bool          `gorm:"not null;default:false" json:"isForked"`
	Modifications  string        `gorm:"type:text" json:"modifications,omitempty"`
	Likes          Likes         `gorm:"serializer:json;type:text" json:"likes"`
	CreatedAt      time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// BeforeCreate assigns an opaque id and normalizes nil lists.
func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.normalize()
	return nil
}

// AfterFind keeps nil lists from rendering as JSON null.
func (r *Recipe) AfterFind(_ *gorm.DB) error {
	r.normalize()
	return nil
}

func (r *Recipe) normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	if r.Instructions == nil {
		r.Instructions = []Instruction{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Likes == nil {
		r.Likes = Likes{}
	}
}
