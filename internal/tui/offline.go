package tui

import (
	"context"

	"github.com/alexieremia/burgersocial/internal/authoring"
	"github.com/alexieremia/burgersocial/internal/client"
	"github.com/alexieremia/burgersocial/internal/models"
	"github.com/alexieremia/burgersocial/internal/store"
)

// Offline serves the client straight from a Store, without a running API.
func Offline(s store.Store) DataSource {
	return offline{s: s}
}

type offline struct {
	s store.Store
}

func (o offline) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	return o.s.Restaurants(), ctx.Err()
}

func (o offline) RestaurantReviews(ctx context.Context, id string) ([]models.Review, error) {
	return o.s.RestaurantReviews(id), ctx.Err()
}

func (o offline) Users(ctx context.Context) ([]models.User, error) {
	return o.s.Users(), ctx.Err()
}

func (o offline) UserReviews(ctx context.Context, id string) ([]models.Review, error) {
	return o.s.UserReviews(id), ctx.Err()
}

func (o offline) Posts(ctx context.Context) ([]models.Post, error) {
	return o.s.Posts(), ctx.Err()
}

// SubmitReview validates d against the store and echoes it back, as the API does.
func (o offline) SubmitReview(ctx context.Context, d authoring.Draft) (authoring.Draft, error) {
	if err := ctx.Err(); err != nil {
		return authoring.Draft{}, err
	}
	exists := func(id string) bool {
		_, err := o.s.Restaurant(id)
		return err == nil
	}
	if fe := authoring.Validate(d, exists); fe != nil {
		return authoring.Draft{}, &client.ValidationError{Message: "Validation failed", Fields: fe}
	}
	return d, nil
}
