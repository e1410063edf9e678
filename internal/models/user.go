// Package models contains data structures for the application's domain models.
package models

import "time"

// User is the local projection of an identity owned by the external auth
// provider. It exists so reads can inline an author's name and avatar.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
