package entity

import (
	"time"
)

// Post is an immutable publication by a user. ImageKey is an opaque storage
// object reference; download URLs are derived from it at read time and are
// never persisted.
type Post struct {
	ID        string
	AuthorID  string
	Caption   string
	ImageKey  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Username is populated on reads by joining the users table; it is not a
	// column of the posts table.
	Username string
}
