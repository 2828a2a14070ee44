package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexieremia/burgersocial/internal/models"
)

// feed tracks the cursor and the likes toggled in this session. Toggles are never sent to the API.
type feed struct {
	cursor  int
	toggled map[string]bool
}

func (f *feed) reset(posts []models.Post) {
	if f.cursor >= len(posts) {
		f.cursor = max(0, len(posts)-1)
	}
}

func (f *feed) toggle(id string) {
	if f.toggled == nil {
		f.toggled = make(map[string]bool)
	}
	if f.toggled[id] {
		delete(f.toggled, id)
	} else {
		f.toggled[id] = true
	}
}

// liked returns the effective liked state and like count of p.
func (f feed) liked(p models.Post) (bool, int) {
	if !f.toggled[p.ID] {
		return p.Liked, p.Likes
	}
	if p.Liked {
		return false, p.Likes - 1
	}
	return true, p.Likes + 1
}

func (a *App) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.feed
	switch msg.String() {
	case "j", "down":
		if f.cursor < len(a.posts)-1 {
			f.cursor++
		}
	case "k", "up":
		if f.cursor > 0 {
			f.cursor--
		}
	case "l", " ":
		if f.cursor < len(a.posts) {
			f.toggle(a.posts[f.cursor].ID)
		}
	case "enter":
		if f.cursor < len(a.posts) {
			return a, a.openRestaurant(a.posts[f.cursor].Restaurant.ID)
		}
	case "u":
		if f.cursor < len(a.posts) {
			return a, a.openProfile(a.posts[f.cursor].User.ID)
		}
	}
	return a, nil
}

func (f feed) render(posts []models.Post, width int) string {
	if len(posts) == 0 {
		return emptyStyle.Render("No posts yet.")
	}
	var b strings.Builder
	for i, p := range posts {
		liked, likes := f.liked(p)
		heart := "♡"
		if liked {
			heart = closedStyle.Render("♥")
		}

		author := itemTitleStyle.Render(p.User.Name)
		if i == f.cursor {
			author = itemSelectedStyle.Render("> " + p.User.Name)
		}
		head := fmt.Sprintf("%s %s %s  %s",
			author,
			itemMetaStyle.Render("at"),
			p.Restaurant.Name,
			ratingStyle.Render(stars(float64(p.Rating))))

		body := bodyStyle.Render(wrap(p.Content, width-4))
		foot := itemMetaStyle.Render(fmt.Sprintf("%s %d   %d comments   %s", heart, likes, p.Comments, p.CreatedAt))
		b.WriteString(cardStyle.Render(head + "\n" + body + "\n" + foot))
		b.WriteString("\n")
	}
	return b.String()
}
