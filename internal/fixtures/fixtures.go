// Package fixtures holds the static demo dataset served by the mock API.
package fixtures

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alexieremia/burgersocial/internal/models"
)

//go:embed data.yaml
var raw []byte

// Dataset is the full set of demo records
type Dataset struct {
	Users       []models.User       `yaml:"users"`
	Restaurants []models.Restaurant `yaml:"restaurants"`
	Reviews     []models.Review     `yaml:"reviews"`
	Posts       []models.Post       `yaml:"posts"`
}

// Load decodes the embedded dataset. Every call returns a fresh copy, so callers may mutate it freely.
func Load() (*Dataset, error) {
	return Parse(raw)
}

// Parse decodes a dataset document in the same layout as the embedded one.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := ds.check(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// check rejects duplicate ids and dangling references
func (d *Dataset) check() error {
	users := make(map[string]bool, len(d.Users))
	for _, u := range d.Users {
		if users[u.ID] {
			return fmt.Errorf("fixtures: duplicate user id %q", u.ID)
		}
		users[u.ID] = true
	}
	restaurants := make(map[string]bool, len(d.Restaurants))
	for _, r := range d.Restaurants {
		if restaurants[r.ID] {
			return fmt.Errorf("fixtures: duplicate restaurant id %q", r.ID)
		}
		restaurants[r.ID] = true
	}
	for _, rv := range d.Reviews {
		if !restaurants[rv.RestaurantID] {
			return fmt.Errorf("fixtures: review %s references unknown restaurant %q", rv.ID, rv.RestaurantID)
		}
		if !users[rv.UserID] {
			return fmt.Errorf("fixtures: review %s references unknown user %q", rv.ID, rv.UserID)
		}
	}
	for _, p := range d.Posts {
		if !restaurants[p.Restaurant.ID] {
			return fmt.Errorf("fixtures: post %s references unknown restaurant %q", p.ID, p.Restaurant.ID)
		}
		if !users[p.User.ID] {
			return fmt.Errorf("fixtures: post %s references unknown user %q", p.ID, p.User.ID)
		}
	}
	return nil
}
