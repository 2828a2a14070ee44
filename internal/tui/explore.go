package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexieremia/burgersocial/internal/discovery"
	"github.com/alexieremia/burgersocial/internal/models"
)

// EmptyResults is shown when the filter rejects every restaurant
const EmptyResults = "No restaurants found matching your criteria."

const maxRating = 5

type explore struct {
	filter    discovery.Filter
	results   []models.Restaurant
	cursor    int
	searching bool
}

func (e *explore) clamp() {
	if e.cursor >= len(e.results) {
		e.cursor = max(0, len(e.results)-1)
	}
}

func (e *explore) selected() (models.Restaurant, bool) {
	if e.cursor < len(e.results) {
		return e.results[e.cursor], true
	}
	return models.Restaurant{}, false
}

func (a *App) handleExploreKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &a.explore
	switch key := msg.String(); key {
	case "/":
		e.searching = true
		a.searchInput.Focus()
		return a, textinput.Blink
	case "j", "down":
		if e.cursor < len(e.results)-1 {
			e.cursor++
		}
		return a, nil
	case "k", "up":
		if e.cursor > 0 {
			e.cursor--
		}
		return a, nil
	case "enter":
		if r, ok := e.selected(); ok {
			return a, a.openRestaurant(r.ID)
		}
		return a, nil
	case "1", "2", "3":
		tier := discovery.PriceTiers[key[0]-'1']
		e.filter = e.filter.TogglePrice(tier)
	case "+", "=":
		if e.filter.MinRating < maxRating {
			e.filter.MinRating++
		}
	case "-":
		if e.filter.MinRating > 0 {
			e.filter.MinRating--
		}
	case "o":
		e.filter.OpenNow = !e.filter.OpenNow
	case "s":
		e.filter.SortBy = e.filter.SortBy.Next()
	case "x":
		e.filter = e.filter.Reset()
	default:
		return a, nil
	}
	// facet changes apply at once; only typing is debounced
	a.refreshResults()
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		// the pending call would re-enter the program loop, so apply here instead
		a.explore.searching = false
		a.searchInput.Blur()
		a.debouncer.Cancel()
		a.applyQuery()
		return a, nil
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if a.searchInput.Value() != before {
		a.debouncer.Trigger()
	}
	return a, cmd
}

func (e explore) render(input string, width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Find burger spots near you"))
	b.WriteString("\n ")
	b.WriteString(input)
	b.WriteString("\n")
	b.WriteString(renderFilterBar(e.filter))
	b.WriteString("\n\n")

	if len(e.results) == 0 {
		b.WriteString(emptyStyle.Render(EmptyResults))
		return b.String()
	}
	for i, r := range e.results {
		b.WriteString(renderRestaurantRow(r, i == e.cursor, width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderFilterBar(f discovery.Filter) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string
	for i, tier := range discovery.PriceTiers {
		style := tabInactiveStyle
		if f.HasPrice(tier) {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", i+1, tier)))
	}

	rating := "Any rating"
	if f.MinRating > 0 {
		rating = fmt.Sprintf("%.0f+ stars", f.MinRating)
	}
	parts = append(parts, tabInactiveStyle.Render(rating))

	open := tabInactiveStyle
	if f.OpenNow {
		open = tabActiveStyle
	}
	parts = append(parts, open.Render("Open now"))
	parts = append(parts, tabInactiveStyle.Render("Sort: "+f.SortBy.Label()))
	return " " + strings.Join(parts, sep)
}

func renderRestaurantRow(r models.Restaurant, selected bool, width int) string {
	name := itemTitleStyle.Render(r.Name)
	marker := "  "
	if selected {
		name = itemSelectedStyle.Render(r.Name)
		marker = itemSelectedStyle.Render("> ")
	}
	status := closedStyle.Render("Closed")
	if r.IsOpen {
		status = openStyle.Render("Open")
	}
	meta := fmt.Sprintf("%s · %s · %d reviews · %s",
		r.Distance, r.PriceRange, r.ReviewCount, strings.Join(r.Specialties, ", "))
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		marker, name, "  ", ratingStyle.Render(stars(r.Rating)), "  ", status)
	return line + "\n   " + itemMetaStyle.Render(truncateStr(meta, width-3))
}
