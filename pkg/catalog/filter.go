package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	verrors "github.com/Humphrey-He/vanya/pkg/errors"
)

// SortKey selects the ordering of a filtered view.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// ParseSortKey accepts the short keys used by the collection page and the
// long descriptive names. An empty string is featured.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "featured":
		return SortFeatured, nil
	case "newest":
		return SortNewest, nil
	case "price-low", "price-asc", "price-ascending":
		return SortPriceLow, nil
	case "price-high", "price-desc", "price-descending":
		return SortPriceHigh, nil
	case "rating", "rating-desc", "rating-descending":
		return SortRating, nil
	default:
		return "", fmt.Errorf("%w: %q", verrors.ErrUnknownSortKey, s)
	}
}

// Criteria is the active filter state of the collection view.
// Dimensions combine with AND; values within a multi-select combine with OR.
type Criteria struct {
	// Category comes from navigation context and matches case-insensitively.
	Category string `json:"category,omitempty"`
	// NewArrivals keeps only products flagged new.
	NewArrivals bool        `json:"newArrivals,omitempty"`
	Categories  []string    `json:"categories,omitempty"`
	Colors      []string    `json:"colors,omitempty"`
	Sizes       []string    `json:"sizes,omitempty"`
	PriceRange  *PriceRange `json:"priceRange,omitempty"`
	Sort        SortKey     `json:"sort,omitempty"`
}

// Active reports whether any filter-panel selection is set. Navigation
// context and sorting do not count.
func (c Criteria) Active() bool {
	return len(c.Categories) > 0 || len(c.Colors) > 0 || len(c.Sizes) > 0 || c.PriceRange != nil
}

// Toggle adds value to the named multi-select ("categories", "colors" or
// "sizes") or removes it when already present.
func (c *Criteria) Toggle(dimension, value string) error {
	var target *[]string
	switch dimension {
	case "categories":
		target = &c.Categories
	case "colors":
		target = &c.Colors
	case "sizes":
		target = &c.Sizes
	default:
		return fmt.Errorf("unknown filter dimension %q", dimension)
	}
	if i := slices.Index(*target, value); i >= 0 {
		*target = slices.Delete(slices.Clone(*target), i, i+1)
		return nil
	}
	*target = append(slices.Clone(*target), value)
	return nil
}

// Reset clears the filter-panel selections, keeping navigation and sort.
func (c *Criteria) Reset() {
	c.Categories = nil
	c.Colors = nil
	c.Sizes = nil
	c.PriceRange = nil
}

// Filter returns the products matching criteria in the requested order.
// The input slice is never modified.
func Filter(products []Product, criteria Criteria) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if criteria.matches(p) {
			out = append(out, p.Clone())
		}
	}

	switch criteria.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) })
	case SortNewest:
		// There is no arrival date; new items simply move ahead of the rest.
		slices.SortStableFunc(out, func(a, b Product) int { return newRank(a) - newRank(b) })
	}
	return out
}

func newRank(p Product) int {
	if p.IsNew {
		return 0
	}
	return 1
}

func (c Criteria) matches(p Product) bool {
	if c.Category != "" && !strings.EqualFold(p.Category, c.Category) {
		return false
	}
	if c.NewArrivals && !p.IsNew {
		return false
	}
	if len(c.Categories) > 0 && !slices.ContainsFunc(c.Categories, func(s string) bool {
		return strings.EqualFold(s, p.Category)
	}) {
		return false
	}
	if len(c.Colors) > 0 && !slices.ContainsFunc(p.Colors, func(color string) bool {
		return slices.Contains(c.Colors, color)
	}) {
		return false
	}
	if len(c.Sizes) > 0 && !slices.ContainsFunc(p.Sizes, func(size string) bool {
		return slices.Contains(c.Sizes, size)
	}) {
		return false
	}
	if c.PriceRange != nil && !c.PriceRange.Contains(p.Price) {
		return false
	}
	return true
}
