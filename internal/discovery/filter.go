// Package discovery implements the restaurant discovery query: text match,
// facet filters and ordering over an in-memory collection.
package discovery

import (
	"net/url"
	"strconv"
	"strings"
)

// SortKey selects the result ordering
type SortKey string

const (
	SortDistance SortKey = "distance"
	SortRating   SortKey = "rating"
	SortReviews  SortKey = "reviews"
)

// PriceTiers lists the price tiers in ascending order.
var PriceTiers = []string{"$", "$$", "$$$"}

// SortOption pairs a key with its display label.
type SortOption struct {
	Key   SortKey
	Label string
}

// SortKeys lists the supported orderings in display order.
var SortKeys = []SortOption{
	{Key: SortDistance, Label: "Distance"},
	{Key: SortRating, Label: "Rating"},
	{Key: SortReviews, Label: "Most Reviews"},
}

// ParseSortKey maps s to a known key; anything unknown becomes SortDistance.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortRating, SortReviews:
		return k
	}
	return SortDistance
}

// Label returns the display label of k
func (k SortKey) Label() string {
	for _, o := range SortKeys {
		if o.Key == k {
			return o.Label
		}
	}
	return SortKeys[0].Label
}

// Next returns the key following k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	for i, o := range SortKeys {
		if o.Key == k {
			return SortKeys[(i+1)%len(SortKeys)].Key
		}
	}
	return SortDistance
}

// Filter is the combined search, facet and sort selection.
// It is a value: the helper methods return modified copies.
type Filter struct {
	Query      string   `json:"query"`
	PriceRange []string `json:"priceRange"`
	MinRating  float64  `json:"minRating"`
	OpenNow    bool     `json:"isOpen"`
	SortBy     SortKey  `json:"sortBy"`
}

// DefaultFilter accepts everything and orders by distance.
func DefaultFilter() Filter {
	return Filter{PriceRange: []string{}, SortBy: SortDistance}
}

// WithQuery returns f with the free-text query replaced
func (f Filter) WithQuery(q string) Filter {
	f.PriceRange = clonePrices(f.PriceRange)
	f.Query = q
	return f
}

// TogglePrice adds tier to the accepted set, or removes it when already present.
func (f Filter) TogglePrice(tier string) Filter {
	out := make([]string, 0, len(f.PriceRange)+1)
	found := false
	for _, p := range f.PriceRange {
		if p == tier {
			found = true
			continue
		}
		out = append(out, p)
	}
	if !found {
		out = append(out, tier)
	}
	f.PriceRange = out
	return f
}

// HasPrice reports whether tier is selected
func (f Filter) HasPrice(tier string) bool {
	for _, p := range f.PriceRange {
		if p == tier {
			return true
		}
	}
	return false
}

// Reset clears every facet and the ordering but keeps the text query.
func (f Filter) Reset() Filter {
	d := DefaultFilter()
	d.Query = f.Query
	return d
}

// Values encodes f as query string parameters understood by FilterFromValues.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	for _, p := range f.PriceRange {
		v.Add("price", p)
	}
	if f.MinRating > 0 {
		v.Set("minRating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.OpenNow {
		v.Set("open", "true")
	}
	if f.SortBy != "" && f.SortBy != SortDistance {
		v.Set("sort", string(f.SortBy))
	}
	return v
}

// FilterFromValues decodes a filter from query parameters q, price, minRating,
// open and sort. price may repeat and may hold comma separated tiers.
// Malformed values are ignored and leave the default in place.
func FilterFromValues(v url.Values) Filter {
	f := DefaultFilter()
	f.Query = v.Get("q")

	for _, raw := range v["price"] {
		for _, p := range strings.Split(raw, ",") {
			p = strings.TrimSpace(p)
			if p == "" || f.HasPrice(p) {
				continue
			}
			f.PriceRange = append(f.PriceRange, p)
		}
	}

	if s := v.Get("minRating"); s != "" {
		if r, err := strconv.ParseFloat(s, 64); err == nil && r >= 0 {
			f.MinRating = r
		}
	}
	if s := v.Get("open"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			f.OpenNow = b
		}
	}
	f.SortBy = ParseSortKey(v.Get("sort"))
	return f
}

func clonePrices(p []string) []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p...)
}
