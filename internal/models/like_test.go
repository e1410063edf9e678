package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLikes_HasWithoutPrepend(t *testing.T) {
	now := time.Now()
	likes := Likes{{User: "a", CreatedAt: now}, {User: "b", CreatedAt: now}, {User: "a", CreatedAt: now}}

	assert.True(t, likes.Has("a"))
	assert.False(t, likes.Has("c"))

	without := likes.Without("a")
	assert.Equal(t, Likes{{User: "b", CreatedAt: now}}, without)
	assert.Len(t, likes, 3, "Without must not mutate the receiver")

	prepended := without.Prepend(Like{User: "c", CreatedAt: now})
	assert.Equal(t, "c", prepended[0].User)
	assert.Equal(t, "b", prepended[1].User)
	assert.Len(t, without, 1)
}

func TestFolder_HasRecipe(t *testing.T) {
	f := &Folder{Recipes: []string{"r1", "r2"}}
	assert.True(t, f.HasRecipe("r2"))
	assert.False(t, f.HasRecipe("r3"))
}
