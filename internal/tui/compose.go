package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexieremia/burgersocial/internal/authoring"
	"github.com/alexieremia/burgersocial/internal/models"
)

type composeField int

const (
	fieldRestaurant composeField = iota
	fieldTitle
	fieldContent
	fieldTaste
	fieldTexture
	fieldPresentation
	composeFields
)

var ratingRows = []struct {
	field composeField
	label string
}{
	{fieldTaste, "Taste"},
	{fieldTexture, "Texture"},
	{fieldPresentation, "Presentation"},
}

// compose is the review form. Ratings start unset and take 1-5 on the focused row.
type compose struct {
	choice     int // index into the loaded restaurants, -1 for none
	title      textinput.Model
	content    textarea.Model
	ratings    models.Ratings
	focus      composeField
	errs       authoring.FieldErrors
	submitting bool
	returnTo   mode
}

func newCompose(restaurants []models.Restaurant, preselect string, returnTo mode) compose {
	ti := textinput.New()
	ti.Placeholder = "e.g., Best smash burger in town!"
	ti.Prompt = ""
	ti.CharLimit = 120

	ta := textarea.New()
	ta.Placeholder = "Tell us about your experience..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(5)

	c := compose{choice: -1, title: ti, content: ta, returnTo: returnTo}
	for i, r := range restaurants {
		if r.ID == preselect {
			c.choice = i
		}
	}
	return c
}

// openCompose starts a fresh draft, preselecting the restaurant with id when it is loaded.
func (a *App) openCompose(id string) tea.Cmd {
	if len(a.restaurants) == 0 {
		a.err = errNotLoaded
		return nil
	}
	if a.mode < modeDetail {
		a.prev = a.mode
	}
	a.compose = newCompose(a.restaurants, id, a.mode)
	a.mode = modeCompose
	if a.compose.choice >= 0 {
		return a.compose.focusField(fieldTitle)
	}
	return nil
}

func (c *compose) focusField(f composeField) tea.Cmd {
	c.focus = f
	c.title.Blur()
	c.content.Blur()
	switch f {
	case fieldTitle:
		return c.title.Focus()
	case fieldContent:
		return c.content.Focus()
	}
	return nil
}

// cycle moves the restaurant choice by step, wrapping around n entries.
func (c *compose) cycle(step, n int) {
	if n == 0 {
		return
	}
	if c.choice < 0 {
		c.choice = 0
		if step < 0 {
			c.choice = n - 1
		}
		return
	}
	c.choice = (c.choice + step + n) % n
}

func (c *compose) score(f composeField) *int {
	switch f {
	case fieldTaste:
		return &c.ratings.Taste
	case fieldTexture:
		return &c.ratings.Texture
	case fieldPresentation:
		return &c.ratings.Presentation
	}
	return nil
}

func (c compose) draft(restaurants []models.Restaurant) authoring.Draft {
	d := authoring.Draft{
		Title:   c.title.Value(),
		Content: c.content.Value(),
		Ratings: c.ratings,
	}
	if c.choice >= 0 && c.choice < len(restaurants) {
		d.RestaurantID = restaurants[c.choice].ID
	}
	return d
}

// update forwards non-key messages such as cursor blinks to the focused input.
func (c *compose) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch c.focus {
	case fieldTitle:
		c.title, cmd = c.title.Update(msg)
	case fieldContent:
		c.content, cmd = c.content.Update(msg)
	}
	return cmd
}

func (a *App) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &a.compose
	if c.submitting {
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.mode = c.returnTo
		return a, nil
	case "ctrl+s":
		return a, a.submitCompose()
	case "tab":
		return a, c.focusField((c.focus + 1) % composeFields)
	case "shift+tab":
		return a, c.focusField((c.focus + composeFields - 1) % composeFields)
	}

	switch c.focus {
	case fieldRestaurant:
		switch msg.String() {
		case "left", "h", "up", "k":
			c.cycle(-1, len(a.restaurants))
		case "right", "l", "down", "j":
			c.cycle(1, len(a.restaurants))
		case "enter":
			return a, c.focusField(fieldTitle)
		}
		return a, nil
	case fieldTitle:
		if msg.String() == "enter" {
			return a, c.focusField(fieldContent)
		}
		var cmd tea.Cmd
		c.title, cmd = c.title.Update(msg)
		return a, cmd
	case fieldContent:
		var cmd tea.Cmd
		c.content, cmd = c.content.Update(msg)
		return a, cmd
	}

	s := c.score(c.focus)
	switch k := msg.String(); k {
	case "1", "2", "3", "4", "5":
		*s = int(k[0] - '0')
	case "left", "h", "-":
		if *s > authoring.MinScore {
			*s--
		}
	case "right", "l", "+", "=":
		if *s < authoring.MaxScore {
			*s++
		}
	case "enter":
		if c.focus == fieldPresentation {
			return a, a.submitCompose()
		}
		return a, c.focusField(c.focus + 1)
	}
	return a, nil
}

// submitCompose checks the draft locally and only sends it when every field passes.
func (a *App) submitCompose() tea.Cmd {
	c := &a.compose
	d := c.draft(a.restaurants)
	if fe := authoring.Validate(d, a.restaurantLoaded); fe != nil {
		c.errs = fe
		return nil
	}
	c.errs = nil
	c.submitting = true
	return tea.Batch(a.submitReviewCmd(d), a.spinner.Tick)
}

func (a *App) submitReviewCmd(d authoring.Draft) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		accepted, err := src.SubmitReview(ctx, d)
		if err != nil {
			return reviewFailedMsg{err: err}
		}
		return reviewSubmittedMsg{review: accepted}
	}
}

func (a *App) restaurantLoaded(id string) bool {
	_, ok := a.restaurantName(id)
	return ok
}

func (a *App) restaurantName(id string) (string, bool) {
	for _, r := range a.restaurants {
		if r.ID == id {
			return r.Name, true
		}
	}
	return "", false
}

func (c compose) render(restaurants []models.Restaurant, width int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Write a Review"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Share your burger experience with fellow enthusiasts"))
	b.WriteString("\n\n")

	name := "Select a restaurant"
	if c.choice >= 0 && c.choice < len(restaurants) {
		name = restaurants[c.choice].Name
	}
	b.WriteString(c.label(fieldRestaurant, "Restaurant"))
	b.WriteString("\n   " + bodyStyle.Render("< "+name+" >"))
	b.WriteString(c.fieldError(authoring.FieldRestaurant))
	b.WriteString("\n\n")

	b.WriteString(c.label(fieldTitle, "Review Title"))
	b.WriteString("\n   " + c.title.View())
	b.WriteString(c.fieldError(authoring.FieldTitle))
	b.WriteString("\n\n")

	ta := c.content
	if width > 6 {
		ta.SetWidth(width - 6)
	}
	b.WriteString(c.label(fieldContent, "Your Review"))
	b.WriteString("\n")
	for _, line := range strings.Split(ta.View(), "\n") {
		b.WriteString("   " + line + "\n")
	}
	b.WriteString(strings.TrimPrefix(c.fieldError(authoring.FieldContent), "\n"))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Rate Your Experience"))
	b.WriteString(c.fieldError(authoring.FieldRatings))
	b.WriteString("\n")
	for _, row := range ratingRows {
		s := *c.score(row.field)
		b.WriteString(c.label(row.field, fmt.Sprintf("%-13s", row.label)))
		b.WriteString(" " + ratingStyle.Render(stars(float64(s))))
		b.WriteString("\n")
	}
	return b.String()
}

func (c compose) label(f composeField, text string) string {
	if c.focus == f {
		return itemSelectedStyle.Render("> " + text)
	}
	return itemTitleStyle.Render("  " + text)
}

func (c compose) fieldError(field string) string {
	if msg, ok := c.errs[field]; ok {
		return "\n" + errorStyle.Render("  "+msg)
	}
	return ""
}

func (c compose) hints() string {
	switch c.focus {
	case fieldRestaurant:
		return "←/→ restaurant  tab next  ctrl+s submit  esc cancel"
	case fieldTitle, fieldContent:
		return "tab next  shift+tab back  ctrl+s submit  esc cancel"
	}
	return "1-5 rate  tab next  enter next  ctrl+s submit  esc cancel"
}
