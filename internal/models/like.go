package models

import "time"

// Like is one user's endorsement embedded in a Recipe or Comment.
type Like struct {
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// Likes is an embedded, most-recent-first likes list.
type Likes []Like

// Has reports whether userID appears in the list.
func (l Likes) Has(userID string) bool {
	for _, like := range l {
		if like.User == userID {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with every entry for userID removed.
func (l Likes) Without(userID string) Likes {
	out := make(Likes, 0, len(l))
	for _, like := range l {
		if like.User != userID {
			out = append(out, like)
		}
	}
	return out
}

// Prepend returns a new list with like at the front.
func (l Likes) Prepend(like Like) Likes {
	out := make(Likes, 0, len(l)+1)
	out = append(out, like)
	return append(out, l...)
}
