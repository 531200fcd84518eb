package domain

import "time"

// Item is a single result returned by a category fetch.
// The engine treats items as opaque apart from ID and Category.
type Item struct {
	// ID uniquely identifies the item within its category.
	ID string `json:"id" toml:"id"`

	// Category is the category the item belongs to.
	Category Category `json:"category" toml:"category"`

	// Title is the primary display text (person name, post title, ...).
	Title string `json:"title" toml:"title"`

	// Subtitle is secondary display text (handle, venue, author, ...).
	Subtitle string `json:"subtitle,omitempty" toml:"subtitle,omitempty"`

	// Snippet is a short body excerpt.
	Snippet string `json:"snippet,omitempty" toml:"snippet,omitempty"`

	// URL is the route the caller navigates to on selection.
	URL string `json:"url,omitempty" toml:"url,omitempty"`

	// CreatedAt is when the underlying record was created.
	CreatedAt time.Time `json:"created_at,omitzero" toml:"created_at,omitempty"`
}
