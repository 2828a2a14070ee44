package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexieremia/burgersocial/internal/models"
)

type userList struct {
	cursor int
}

func (l *userList) clamp(n int) {
	if l.cursor >= n {
		l.cursor = max(0, n-1)
	}
}

func (a *App) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &a.community
	switch msg.String() {
	case "j", "down":
		if l.cursor < len(a.users)-1 {
			l.cursor++
		}
	case "k", "up":
		if l.cursor > 0 {
			l.cursor--
		}
	case "enter":
		if l.cursor < len(a.users) {
			return a, a.openProfile(a.users[l.cursor].ID)
		}
	}
	return a, nil
}

func (l userList) render(users []models.User, width int) string {
	if len(users) == 0 {
		return emptyStyle.Render("No members yet.")
	}
	var b strings.Builder
	for i, u := range users {
		name := itemTitleStyle.Render("  " + u.Name)
		if i == l.cursor {
			name = itemSelectedStyle.Render("> " + u.Name)
		}
		b.WriteString(name)
		b.WriteString("\n   ")
		b.WriteString(itemMetaStyle.Render(truncateStr(fmt.Sprintf("%s · %s", pluralize(u.ReviewCount, "review"), pluralize(u.FollowerCount, "follower")), width-3)))
		b.WriteString("\n")
	}
	return b.String()
}

// profile is the detail view of one member
type profile struct {
	user    models.User
	reviews []models.Review
	cursor  int
	loading bool
}

func (a *App) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &a.profile
	switch {
	case isBack(msg):
		a.mode = a.prev
	case msg.String() == "j" || msg.String() == "down":
		if p.cursor < len(p.reviews)-1 {
			p.cursor++
		}
	case msg.String() == "k" || msg.String() == "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case msg.String() == "enter":
		if p.cursor < len(p.reviews) {
			return a, a.openRestaurant(p.reviews[p.cursor].RestaurantID)
		}
	}
	return a, nil
}

func (p profile) render(width int) string {
	u := p.user
	var b strings.Builder
	b.WriteString(headerStyle.Render(u.Name))
	b.WriteString("\n")
	if u.Email != "" {
		b.WriteString(subtitleStyle.Render(u.Email))
		b.WriteString("\n")
	}
	if u.Bio != "" {
		b.WriteString(" " + bodyStyle.Render(wrap(u.Bio, width-2)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderStats([]stat{
		{"Reviews", u.ReviewCount},
		{"Followers", u.FollowerCount},
		{"Following", u.FollowingCount},
	}))
	b.WriteString("\n\n")

	switch {
	case p.loading:
		b.WriteString(emptyStyle.Render("Loading reviews..."))
	case len(p.reviews) == 0:
		b.WriteString(emptyStyle.Render("No reviews yet."))
	default:
		for i, r := range p.reviews {
			b.WriteString(renderReview(r, i == p.cursor, width))
			b.WriteString("\n")
		}
	}
	return b.String()
}

type stat struct {
	label string
	value int
}

func renderStats(stats []stat) string {
	cells := make([]string, 0, len(stats))
	for _, s := range stats {
		cells = append(cells, cardStyle.Render(fmt.Sprintf("%s\n%s", itemTitleStyle.Render(fmt.Sprint(s.value)), itemMetaStyle.Render(s.label))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
