package domain

import (
	"fmt"
	"strings"
)

// Category identifies one independently searchable content partition.
type Category string

// Searchable categories, in declared order.
const (
	CategoryPeople    Category = "people"
	CategoryPosts     Category = "posts"
	CategoryEvents    Category = "events"
	CategoryComments  Category = "comments"
	CategoryLocations Category = "locations"
)

// CategoryAll is the sentinel for the "all categories" fan-out view.
// It is never a key of AggregateState.
const CategoryAll Category = "all"

// Categories returns every searchable category in declared order.
// Render order always follows this order, never completion order.
func Categories() []Category {
	return []Category{
		CategoryPeople,
		CategoryPosts,
		CategoryEvents,
		CategoryComments,
		CategoryLocations,
	}
}

// IsValid returns true if the category is searchable.
func (c Category) IsValid() bool {
	switch c {
	case CategoryPeople, CategoryPosts, CategoryEvents, CategoryComments, CategoryLocations:
		return true
	default:
		return false
	}
}

// IsAll reports whether c is the all-categories sentinel.
func (c Category) IsAll() bool {
	return c == CategoryAll
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// Label returns a human-readable title for the category.
func (c Category) Label() string {
	switch c {
	case CategoryPeople:
		return "People"
	case CategoryPosts:
		return "Posts"
	case CategoryEvents:
		return "Events"
	case CategoryComments:
		return "Comments"
	case CategoryLocations:
		return "Locations"
	case CategoryAll:
		return "All"
	default:
		return string(c)
	}
}

// ParseCategory converts user input into a Category.
// An empty string selects the all-categories view.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" || c.IsAll() {
		return CategoryAll, nil
	}
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// ViewCategories returns the categories shown by a view: every category for
// the all view, a single one otherwise.
func ViewCategories(view Category) []Category {
	if view.IsAll() {
		return Categories()
	}
	return []Category{view}
}
