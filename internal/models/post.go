package models

// PostAuthor is the embedded author summary of a feed post
type PostAuthor struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

// PostRestaurant is the embedded restaurant reference of a feed post
type PostRestaurant struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Post is a short feed entry. CreatedAt is a relative label ("2h ago") as served by the fixtures.
type Post struct {
	ID         string         `json:"id" yaml:"id"`
	User       PostAuthor     `json:"user" yaml:"user"`
	Restaurant PostRestaurant `json:"restaurant" yaml:"restaurant"`
	Content    string         `json:"content" yaml:"content"`
	Image      string         `json:"image,omitempty" yaml:"image"`
	Rating     int            `json:"rating" yaml:"rating"`
	Likes      int            `json:"likes" yaml:"likes"`
	Comments   int            `json:"comments" yaml:"comments"`
	Liked      bool           `json:"liked" yaml:"liked"`
	CreatedAt  string         `json:"createdAt" yaml:"createdAt"`
}
