package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
)

// importFile is the TOML layout accepted by Import:
//
//	[[items]]
//	category = "people"
//	title = "Anna Berg"
//	subtitle = "Oslo"
type importFile struct {
	Items []domain.Item `toml:"items"`
}

// ParseImport decodes a TOML catalog file. Every item needs a title and a
// known category.
func ParseImport(r io.Reader) ([]domain.Item, error) {
	var f importFile
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding import file: %w", err)
	}
	for i, item := range f.Items {
		if !item.Category.IsValid() {
			return nil, fmt.Errorf("item %d: %w: %q", i+1, domain.ErrUnknownCategory, item.Category)
		}
		if item.Title == "" {
			return nil, fmt.Errorf("item %d: %w: title is required", i+1, domain.ErrInvalidInput)
		}
	}
	return f.Items, nil
}

// Import parses r and saves the items into catalog, returning how many were stored.
func Import(ctx context.Context, catalog driven.CatalogStore, r io.Reader) (int, error) {
	items, err := ParseImport(r)
	if err != nil {
		return 0, err
	}
	if err := catalog.Save(ctx, items); err != nil {
		return 0, fmt.Errorf("saving items: %w", err)
	}
	return len(items), nil
}

var (
	firstNames = []string{"Anna", "Jonas", "Mari", "Lars", "Ingrid", "Erik", "Sofie", "Henrik", "Nora", "Magnus", "Thea", "Annabel"}
	lastNames  = []string{"Berg", "Hansen", "Dahl", "Lund", "Strand", "Moen"}
	cities     = []string{
		"Oslo", "Bergen", "Trondheim", "Stavanger", "Tromsø", "Drammen", "Kristiansand",
		"Fredrikstad", "Ålesund", "Bodø", "Lillehammer", "Hamar", "Molde", "Arendal",
		"Gjøvik", "Narvik", "Harstad", "Halden", "Larvik", "Sandefjord",
	}
	topics = []string{"coffee", "hiking", "concerts", "design", "cycling", "books", "ferries", "markets"}
)

// SeedItems returns a deterministic demo catalog covering every category.
// IDs are stable so seeding twice updates rather than duplicates.
func SeedItems() []domain.Item {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var items []domain.Item

	for i, first := range firstNames {
		for j, last := range lastNames {
			city := cities[(i+j)%len(cities)]
			items = append(items, domain.Item{
				ID:       fmt.Sprintf("seed-people-%d-%d", i, j),
				Category: domain.CategoryPeople,
				Title:    first + " " + last,
				Subtitle: city,
				URL:      fmt.Sprintf("/people/%d-%d", i, j),
			})
		}
	}

	for i, city := range cities {
		items = append(items, domain.Item{
			ID:       fmt.Sprintf("seed-locations-%d", i),
			Category: domain.CategoryLocations,
			Title:    city,
			Subtitle: "Norway",
			URL:      fmt.Sprintf("/locations/%d", i),
		})
	}

	for i, topic := range topics {
		for j, city := range cities[:6] {
			author := firstNames[(i+j)%len(firstNames)]
			at := base.Add(time.Duration(i*len(cities)+j) * time.Hour)
			items = append(items,
				domain.Item{
					ID:        fmt.Sprintf("seed-posts-%d-%d", i, j),
					Category:  domain.CategoryPosts,
					Title:     fmt.Sprintf("Best %s in %s", topic, city),
					Subtitle:  author,
					Snippet:   fmt.Sprintf("%s shares favourite %s spots around %s.", author, topic, city),
					URL:       fmt.Sprintf("/posts/%d-%d", i, j),
					CreatedAt: at,
				},
				domain.Item{
					ID:        fmt.Sprintf("seed-events-%d-%d", i, j),
					Category:  domain.CategoryEvents,
					Title:     fmt.Sprintf("%s %s meetup", city, topic),
					Subtitle:  at.AddDate(0, 1, 0).Format("2 Jan 2006"),
					Snippet:   fmt.Sprintf("Hosted by %s.", author),
					URL:       fmt.Sprintf("/events/%d-%d", i, j),
					CreatedAt: at,
				},
				domain.Item{
					ID:        fmt.Sprintf("seed-comments-%d-%d", i, j),
					Category:  domain.CategoryComments,
					Title:     fmt.Sprintf("Re: Best %s in %s", topic, city),
					Subtitle:  firstNames[(i+j+3)%len(firstNames)],
					Snippet:   fmt.Sprintf("Thanks %s, adding these to my list.", author),
					URL:       fmt.Sprintf("/comments/%d-%d", i, j),
					CreatedAt: at.Add(30 * time.Minute),
				},
			)
		}
	}

	return items
}

// Seed stores the demo catalog.
func Seed(ctx context.Context, catalog driven.CatalogStore) (int, error) {
	items := SeedItems()
	if err := catalog.Save(ctx, items); err != nil {
		return 0, fmt.Errorf("saving seed items: %w", err)
	}
	return len(items), nil
}
