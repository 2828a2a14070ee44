package models

// Ratings are the three per-review scores, each 1..5 (0 means unrated)
type Ratings struct {
	Taste        int `json:"taste" yaml:"taste"`
	Texture      int `json:"texture" yaml:"texture"`
	Presentation int `json:"presentation" yaml:"presentation"`
}

// Average returns the mean of the three scores
func (r Ratings) Average() float64 {
	return float64(r.Taste+r.Texture+r.Presentation) / 3
}

// Review is a long-form review attached to a restaurant
type Review struct {
	ID           string  `json:"id" yaml:"id"`
	RestaurantID string  `json:"restaurantId" yaml:"restaurantId"`
	UserID       string  `json:"userId" yaml:"userId"`
	UserName     string  `json:"userName" yaml:"userName"`
	UserAvatar   string  `json:"userAvatar" yaml:"userAvatar"`
	Title        string  `json:"title" yaml:"title"`
	Content      string  `json:"content" yaml:"content"`
	Ratings      Ratings `json:"ratings" yaml:"ratings"`
	Image        string  `json:"image,omitempty" yaml:"image"`
	Date         string  `json:"date" yaml:"date"`
	Likes        int     `json:"likes" yaml:"likes"`
}
