package tui

import (
	"github.com/alexieremia/burgersocial/internal/authoring"
	"github.com/alexieremia/burgersocial/internal/models"
)

type restaurantsLoadedMsg struct {
	restaurants []models.Restaurant
}

type postsLoadedMsg struct {
	posts []models.Post
}

type usersLoadedMsg struct {
	users []models.User
}

type restaurantReviewsMsg struct {
	restaurantID string
	reviews      []models.Review
}

type userReviewsMsg struct {
	userID  string
	reviews []models.Review
}

type fetchErrMsg struct {
	err error
}

// queryDueMsg is sent by the search debouncer once typing goes quiet
type queryDueMsg struct{}

type reviewSubmittedMsg struct {
	review authoring.Draft
}

// reviewFailedMsg carries a rejected draft's *client.ValidationError or a fetch failure
type reviewFailedMsg struct {
	err error
}
