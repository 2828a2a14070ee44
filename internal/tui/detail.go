package tui

import (
	"fmt"
	"strings"

	"github.com/alexieremia/burgersocial/internal/models"
)

// detail is the restaurant page: header, contact, hours and reviews
type detail struct {
	restaurant models.Restaurant
	reviews    []models.Review
	loading    bool
}

func (d detail) render(today string, width int) string {
	r := d.restaurant
	var b strings.Builder

	status := closedStyle.Render("Closed")
	if r.IsOpen {
		status = openStyle.Render("Open now")
	}
	b.WriteString(headerStyle.Render(r.Name) + "  " + status)
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s  %.1f (%s) · %s · %s",
		stars(r.Rating), r.Rating, pluralize(r.ReviewCount, "review"), r.PriceRange, r.Distance)))
	b.WriteString("\n")
	if len(r.Specialties) > 0 {
		b.WriteString(subtitleStyle.Render(strings.Join(r.Specialties, " · ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(" " + bodyStyle.Render(r.Address) + "\n")
	b.WriteString(" " + bodyStyle.Render(r.Phone) + "\n\n")

	b.WriteString(cardStyle.Render(renderHours(r.Hours, today)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Reviews"))
	b.WriteString("\n")
	switch {
	case d.loading:
		b.WriteString(emptyStyle.Render("Loading reviews..."))
	case len(d.reviews) == 0:
		b.WriteString(emptyStyle.Render("No reviews yet."))
	default:
		for _, rv := range d.reviews {
			b.WriteString(renderReview(rv, false, width))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderHours lists the week with the row for today highlighted.
func renderHours(h models.WeeklyHours, today string) string {
	rows := make([]string, 0, len(models.Days))
	for _, day := range models.Days {
		row := fmt.Sprintf("%-10s %s", capitalize(day), h.Day(day))
		if day == today {
			row = todayStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return itemTitleStyle.Render("Hours") + "\n" + strings.Join(rows, "\n")
}

func renderReview(r models.Review, selected bool, width int) string {
	title := itemTitleStyle.Render(r.Title)
	if selected {
		title = itemSelectedStyle.Render("> " + r.Title)
	}
	meta := itemMetaStyle.Render(fmt.Sprintf("%s · %s", r.UserName, r.Date))
	scores := ratingStyle.Render(fmt.Sprintf("Taste %d  Texture %d  Presentation %d",
		r.Ratings.Taste, r.Ratings.Texture, r.Ratings.Presentation))
	body := bodyStyle.Render(wrap(r.Content, width-4))
	likes := itemMetaStyle.Render(fmt.Sprintf("♥ %d", r.Likes))
	return cardStyle.Render(strings.Join([]string{title, meta, scores, body, likes}, "\n"))
}
