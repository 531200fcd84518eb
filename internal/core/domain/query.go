package domain

import (
	"strconv"
	"strings"
)

// SearchQuery is an immutable (text, category, offset) triple.
// Two queries are cache-equivalent iff their CacheKey values are equal.
type SearchQuery struct {
	// Text is the raw free-text input.
	Text string

	// Category is a specific category or CategoryAll.
	Category Category

	// Offset is the number of items to skip.
	Offset int
}

// NewSearchQuery creates a query value.
func NewSearchQuery(text string, category Category, offset int) SearchQuery {
	if offset < 0 {
		offset = 0
	}
	return SearchQuery{Text: text, Category: category, Offset: offset}
}

// Normalized returns the text lower-cased, trimmed, with inner whitespace
// collapsed to single spaces.
func (q SearchQuery) Normalized() string {
	return NormalizeText(q.Text)
}

// IsEmpty reports whether the query has no searchable text.
func (q SearchQuery) IsEmpty() bool {
	return q.Normalized() == ""
}

// CacheKey derives the cache key from category, normalized text and offset.
func (q SearchQuery) CacheKey() string {
	return string(q.Category) + "|" + q.Normalized() + "|" + strconv.Itoa(q.Offset)
}

// PageKey extends CacheKey with the page size. A page fetched with one limit
// never answers a request for another, so a short page always means the
// store ran out of matches for that limit.
func (q SearchQuery) PageKey(limit int) string {
	return q.CacheKey() + "|" + strconv.Itoa(limit)
}

// ForCategory returns a copy of q targeting another category.
func (q SearchQuery) ForCategory(c Category) SearchQuery {
	q.Category = c
	return q
}

// NormalizeText lower-cases, trims and collapses whitespace.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
