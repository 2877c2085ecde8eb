package entity

import (
	"time"
)

// Comment belongs to a post by reference. PostID is not referentially
// checked: commenting on an id that no longer (or never) resolved to a post
// still persists.
type Comment struct {
	ID        string
	AuthorID  string
	PostID    string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Username is populated on reads by joining the users table.
	Username string
}
