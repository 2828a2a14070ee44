package discovery

import (
	"sort"
	"strings"

	"github.com/alexieremia/burgersocial/internal/models"
)

// Query filters restaurants by f and orders the survivors by f.SortBy.
// The input is never modified; the result is a new, non-nil slice and ties
// keep their input order.
func Query(restaurants []models.Restaurant, f Filter) []models.Restaurant {
	needle := strings.ToLower(f.Query)

	type ranked struct {
		r      models.Restaurant
		dist   float64
		distOK bool
	}
	kept := make([]ranked, 0, len(restaurants))
	for _, r := range restaurants {
		if !matches(r, f, needle) {
			continue
		}
		d, ok := ParseDistance(r.Distance)
		kept = append(kept, ranked{r: r, dist: d, distOK: ok})
	}

	var less func(a, b ranked) bool
	switch ParseSortKey(string(f.SortBy)) {
	case SortRating:
		less = func(a, b ranked) bool { return a.r.Rating > b.r.Rating }
	case SortReviews:
		less = func(a, b ranked) bool { return a.r.ReviewCount > b.r.ReviewCount }
	default:
		less = func(a, b ranked) bool {
			if a.distOK != b.distOK {
				return a.distOK
			}
			return a.distOK && a.dist < b.dist
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return less(kept[i], kept[j]) })

	out := make([]models.Restaurant, len(kept))
	for i, k := range kept {
		out[i] = k.r
	}
	return out
}

// Matches reports whether r passes every predicate of f.
func Matches(r models.Restaurant, f Filter) bool {
	return matches(r, f, strings.ToLower(f.Query))
}

func matches(r models.Restaurant, f Filter, needle string) bool {
	if needle != "" && !matchesText(r, needle) {
		return false
	}
	if len(f.PriceRange) > 0 && !f.HasPrice(r.PriceRange) {
		return false
	}
	if r.Rating < f.MinRating {
		return false
	}
	if f.OpenNow && !r.IsOpen {
		return false
	}
	return true
}

func matchesText(r models.Restaurant, needle string) bool {
	if strings.Contains(strings.ToLower(r.Name), needle) {
		return true
	}
	for _, s := range r.Specialties {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
