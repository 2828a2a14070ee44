// Package store serves the read-only demo collections to the API.
package store

import (
	"errors"
	"fmt"

	"github.com/alexieremia/burgersocial/internal/fixtures"
	"github.com/alexieremia/burgersocial/internal/models"
)

// ErrNotFound is returned by single-record lookups for unknown ids.
var ErrNotFound = errors.New("not found")

// Store is the data provider behind the mock API
type Store interface {
	Users() []models.User
	User(id string) (models.User, error)
	Restaurants() []models.Restaurant
	Restaurant(id string) (models.Restaurant, error)
	RestaurantReviews(restaurantID string) []models.Review
	UserReviews(userID string) []models.Review
	Reviews() []models.Review
	Posts() []models.Post
}

// Counts summarises the size of each collection
type Counts struct {
	Users       int `json:"users"`
	Restaurants int `json:"restaurants"`
	Reviews     int `json:"reviews"`
	Posts       int `json:"posts"`
}

// Memory is a Store over an in-memory dataset. The dataset is never
// modified after construction, so a Memory is safe for concurrent reads.
type Memory struct {
	ds *fixtures.Dataset
}

// NewMemory wraps ds. The caller must not modify ds afterwards.
func NewMemory(ds *fixtures.Dataset) *Memory {
	if ds == nil {
		ds = &fixtures.Dataset{}
	}
	return &Memory{ds: ds}
}

// FromFixtures builds a Memory over the embedded demo data
func FromFixtures() (*Memory, error) {
	ds, err := fixtures.Load()
	if err != nil {
		return nil, err
	}
	return NewMemory(ds), nil
}

func (m *Memory) Users() []models.User {
	return append([]models.User{}, m.ds.Users...)
}

func (m *Memory) User(id string) (models.User, error) {
	for _, u := range m.ds.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %q: %w", id, ErrNotFound)
}

func (m *Memory) Restaurants() []models.Restaurant {
	out := make([]models.Restaurant, len(m.ds.Restaurants))
	for i, r := range m.ds.Restaurants {
		out[i] = copyRestaurant(r)
	}
	return out
}

func (m *Memory) Restaurant(id string) (models.Restaurant, error) {
	for _, r := range m.ds.Restaurants {
		if r.ID == id {
			return copyRestaurant(r), nil
		}
	}
	return models.Restaurant{}, fmt.Errorf("restaurant %q: %w", id, ErrNotFound)
}

func (m *Memory) RestaurantReviews(restaurantID string) []models.Review {
	out := []models.Review{}
	for _, rv := range m.ds.Reviews {
		if rv.RestaurantID == restaurantID {
			out = append(out, rv)
		}
	}
	return out
}

func (m *Memory) UserReviews(userID string) []models.Review {
	out := []models.Review{}
	for _, rv := range m.ds.Reviews {
		if rv.UserID == userID {
			out = append(out, rv)
		}
	}
	return out
}

func (m *Memory) Reviews() []models.Review {
	return append([]models.Review{}, m.ds.Reviews...)
}

func (m *Memory) Posts() []models.Post {
	return append([]models.Post{}, m.ds.Posts...)
}

// Counts reports the collection sizes
func (m *Memory) Counts() Counts {
	return Counts{
		Users:       len(m.ds.Users),
		Restaurants: len(m.ds.Restaurants),
		Reviews:     len(m.ds.Reviews),
		Posts:       len(m.ds.Posts),
	}
}

// copyRestaurant detaches the specialties slice from the dataset
func copyRestaurant(r models.Restaurant) models.Restaurant {
	r.Specialties = append([]string{}, r.Specialties...)
	return r
}
