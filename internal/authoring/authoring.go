// Package authoring validates review drafts before submission.
package authoring

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/alexieremia/burgersocial/internal/models"
)

const (
	MinTitleLength   = 5
	MinContentLength = 20
	MinScore         = 1
	MaxScore         = 5
)

// Field names used as keys in FieldErrors
const (
	FieldRestaurant = "restaurantId"
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldRatings    = "ratings"
)

// Draft is a review as composed by a user, before it is accepted
type Draft struct {
	RestaurantID string         `json:"restaurantId"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Ratings      models.Ratings `json:"ratings"`
}

// FieldErrors maps a field name to its user-facing message
type FieldErrors map[string]string

// Error joins the messages in field order so FieldErrors can travel as an error.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = fe[k]
	}
	return strings.Join(msgs, "; ")
}

// Validate checks d and returns one message per invalid field, or nil.
// exists reports whether a restaurant id is known; a nil exists accepts any non-empty id.
func Validate(d Draft, exists func(id string) bool) FieldErrors {
	fe := FieldErrors{}

	id := strings.TrimSpace(d.RestaurantID)
	if id == "" || (exists != nil && !exists(id)) {
		fe[FieldRestaurant] = "Please select a restaurant"
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Title)) < MinTitleLength {
		fe[FieldTitle] = "Title must be at least 5 characters"
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Content)) < MinContentLength {
		fe[FieldContent] = "Review must be at least 20 characters"
	}
	if !scored(d.Ratings.Taste) || !scored(d.Ratings.Texture) || !scored(d.Ratings.Presentation) {
		fe[FieldRatings] = "Please rate all categories"
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

func scored(v int) bool {
	return v >= MinScore && v <= MaxScore
}
