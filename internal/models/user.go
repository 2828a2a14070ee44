package models

// User is a community member profile
type User struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Avatar         string `json:"avatar" yaml:"avatar"`
	RingColor      string `json:"ringColor,omitempty" yaml:"ringColor"`
	Email          string `json:"email,omitempty" yaml:"email"`
	Bio            string `json:"bio,omitempty" yaml:"bio"`
	ReviewCount    int    `json:"reviewCount" yaml:"reviewCount"`
	FollowerCount  int    `json:"followerCount" yaml:"followerCount"`
	FollowingCount int    `json:"followingCount" yaml:"followingCount"`
}
