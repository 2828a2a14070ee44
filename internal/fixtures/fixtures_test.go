package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCounts(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	assert.Len(t, ds.Users, 3)
	assert.Len(t, ds.Restaurants, 3)
	assert.Len(t, ds.Reviews, 3)
	assert.Len(t, ds.Posts, 4)
}

func TestLoadRestaurantValues(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	lab := ds.Restaurants[2]
	assert.Equal(t, "The Patty Lab", lab.Name)
	assert.Equal(t, "2.1 km", lab.Distance)
	assert.Equal(t, 4.9, lab.Rating)
	assert.Equal(t, "$$$", lab.PriceRange)
	assert.False(t, lab.IsOpen)
	assert.Equal(t, "Closed", lab.Hours.Monday)
	assert.Equal(t, []string{"Wagyu Beef", "Truffle Burgers"}, lab.Specialties)

	van := ds.Restaurants[0]
	assert.Equal(t, "+40 721 123 456", van.Phone)
	assert.Equal(t, "12:00 - 00:00", van.Hours.Day("saturday"))
}

func TestLoadReturnsIndependentCopies(t *testing.T) {
	a, err := Load()
	require.NoError(t, err)
	b, err := Load()
	require.NoError(t, err)

	a.Restaurants[0].Name = "changed"
	assert.Equal(t, "Burger Van", b.Restaurants[0].Name)
}

func TestParseRejectsDanglingReview(t *testing.T) {
	doc := []byte(`
users:
  - id: "1"
    name: A
restaurants:
  - id: "1"
    name: R
reviews:
  - id: "1"
    restaurantId: "9"
    userId: "1"
`)
	_, err := Parse(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown restaurant")
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	doc := []byte(`
users:
  - id: "1"
  - id: "1"
`)
	_, err := Parse(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate user")
}
