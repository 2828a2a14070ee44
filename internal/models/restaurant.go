package models

// Days lists the keys of WeeklyHours in calendar order, starting on Monday.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeeklyHours holds the opening hours label for each day of the week
type WeeklyHours struct {
	Monday    string `json:"monday" yaml:"monday"`
	Tuesday   string `json:"tuesday" yaml:"tuesday"`
	Wednesday string `json:"wednesday" yaml:"wednesday"`
	Thursday  string `json:"thursday" yaml:"thursday"`
	Friday    string `json:"friday" yaml:"friday"`
	Saturday  string `json:"saturday" yaml:"saturday"`
	Sunday    string `json:"sunday" yaml:"sunday"`
}

// Day returns the hours label for a lower-case day name, or "" if the name is unknown
func (h WeeklyHours) Day(name string) string {
	switch name {
	case "monday":
		return h.Monday
	case "tuesday":
		return h.Tuesday
	case "wednesday":
		return h.Wednesday
	case "thursday":
		return h.Thursday
	case "friday":
		return h.Friday
	case "saturday":
		return h.Saturday
	case "sunday":
		return h.Sunday
	}
	return ""
}

// Restaurant is a listing as served by the API.
// Distance is a display string with a unit suffix ("1.2 km"); IsOpen is a snapshot, not live.
type Restaurant struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Address     string      `json:"address" yaml:"address"`
	Phone       string      `json:"phone" yaml:"phone"`
	Distance    string      `json:"distance" yaml:"distance"`
	Rating      float64     `json:"rating" yaml:"rating"`
	ReviewCount int         `json:"reviewCount" yaml:"reviewCount"`
	PriceRange  string      `json:"priceRange" yaml:"priceRange"`
	Image       string      `json:"image" yaml:"image"`
	Hours       WeeklyHours `json:"hours" yaml:"hours"`
	IsOpen      bool        `json:"isOpen" yaml:"isOpen"`
	Specialties []string    `json:"specialties" yaml:"specialties"`
}
