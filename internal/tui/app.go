// Package tui is the interactive terminal client: feed, explore, restaurant
// detail, profile and review-writing views over the BurgerSocial API.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexieremia/burgersocial/internal/authoring"
	"github.com/alexieremia/burgersocial/internal/client"
	"github.com/alexieremia/burgersocial/internal/debounce"
	"github.com/alexieremia/burgersocial/internal/discovery"
	"github.com/alexieremia/burgersocial/internal/models"
)

// DataSource is the part of the API the client needs. *client.Client satisfies it.
type DataSource interface {
	Restaurants(ctx context.Context) ([]models.Restaurant, error)
	RestaurantReviews(ctx context.Context, id string) ([]models.Review, error)
	Users(ctx context.Context) ([]models.User, error)
	UserReviews(ctx context.Context, id string) ([]models.Review, error)
	Posts(ctx context.Context) ([]models.Post, error)
	// SubmitReview returns a *client.ValidationError for a rejected draft.
	SubmitReview(ctx context.Context, d authoring.Draft) (authoring.Draft, error)
}

type mode int

const (
	modeFeed mode = iota
	modeExplore
	modeUsers
	modeDetail
	modeProfile
	modeCompose
)

// tabs are the top-level views cycled with tab
var tabs = []struct {
	mode  mode
	label string
}{
	{modeFeed, "Feed"},
	{modeExplore, "Explore"},
	{modeUsers, "Community"},
}

const fetchTimeout = 10 * time.Second

type App struct {
	src  DataSource
	mode mode
	prev mode

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	spinner     spinner.Model
	debouncer   *debounce.Debouncer
	send        func(tea.Msg)

	// Data
	restaurants []models.Restaurant
	posts       []models.Post
	users       []models.User

	explore   explore
	feed      feed
	community userList
	detail    detail
	profile   profile
	compose   compose

	loading int
	err     error
	notice  string
	now     func() time.Time
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Source DataSource
	// SearchDebounce is the quiet period before typed text is applied to the results.
	SearchDebounce time.Duration
	StartExplore   bool
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search restaurants..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		src:         opts.Source,
		searchInput: ti,
		spinner:     sp,
		explore:     explore{filter: discovery.DefaultFilter()},
		now:         time.Now,
	}
	if opts.StartExplore {
		a.mode = modeExplore
	}
	a.debouncer = debounce.New(opts.SearchDebounce, func() {
		if a.send != nil {
			a.send(queryDueMsg{})
		}
	})
	return a
}

func (a *App) Init() tea.Cmd {
	a.loading = 3
	return tea.Batch(a.loadRestaurantsCmd(), a.loadPostsCmd(), a.loadUsersCmd(), a.spinner.Tick)
}

func (a *App) loadRestaurantsCmd() tea.Cmd {
	src := a.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		rs, err := src.Restaurants(ctx)
		if err != nil {
			return fetchErrMsg{err: err}
		}
		return restaurantsLoadedMsg{restaurants: rs}
	}
}

func (a *App) loadPostsCmd() tea.Cmd {
	src := a.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		ps, err := src.Posts(ctx)
		if err != nil {
			return fetchErrMsg{err: err}
		}
		return postsLoadedMsg{posts: ps}
	}
}

func (a *App) loadUsersCmd() tea.Cmd {
	src := a.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		us, err := src.Users(ctx)
		if err != nil {
			return fetchErrMsg{err: err}
		}
		return usersLoadedMsg{users: us}
	}
}

// loadRestaurantReviewsCmd captures the id so a late reply for another restaurant can be dropped.
func (a *App) loadRestaurantReviewsCmd(id string) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		rs, err := src.RestaurantReviews(ctx, id)
		if err != nil {
			return fetchErrMsg{err: err}
		}
		return restaurantReviewsMsg{restaurantID: id, reviews: rs}
	}
}

func (a *App) loadUserReviewsCmd(id string) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		rs, err := src.UserReviews(ctx, id)
		if err != nil {
			return fetchErrMsg{err: err}
		}
		return userReviewsMsg{userID: id, reviews: rs}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case restaurantsLoadedMsg:
		a.doneLoading()
		a.restaurants = msg.restaurants
		a.refreshResults()
		return a, nil

	case postsLoadedMsg:
		a.doneLoading()
		a.posts = msg.posts
		a.feed.reset(a.posts)
		return a, nil

	case usersLoadedMsg:
		a.doneLoading()
		a.users = msg.users
		a.community.clamp(len(a.users))
		return a, nil

	case restaurantReviewsMsg:
		if a.detail.restaurant.ID == msg.restaurantID {
			a.detail.reviews = msg.reviews
			a.detail.loading = false
		}
		return a, nil

	case userReviewsMsg:
		if a.profile.user.ID == msg.userID {
			a.profile.reviews = msg.reviews
			a.profile.loading = false
		}
		return a, nil

	case fetchErrMsg:
		a.doneLoading()
		a.detail.loading = false
		a.profile.loading = false
		a.err = msg.err
		return a, nil

	case queryDueMsg:
		a.applyQuery()
		return a, nil

	case reviewSubmittedMsg:
		a.compose.submitting = false
		name, _ := a.restaurantName(msg.review.RestaurantID)
		a.notice = "Review submitted for " + name
		a.mode = modeFeed
		return a, nil

	case reviewFailedMsg:
		a.compose.submitting = false
		var ve *client.ValidationError
		if errors.As(msg.err, &ve) && len(ve.Fields) > 0 {
			a.compose.errs = ve.Fields
		} else {
			a.err = msg.err
		}
		return a, nil

	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.explore.searching {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	if a.mode == modeCompose {
		return a, a.compose.update(msg)
	}
	return a, nil
}

func (a *App) doneLoading() {
	if a.loading > 0 {
		a.loading--
	}
}

func (a *App) busy() bool {
	return a.loading > 0 || a.detail.loading || a.profile.loading || a.compose.submitting
}

// applyQuery copies the search box into the filter and recomputes the results.
func (a *App) applyQuery() {
	a.explore.filter = a.explore.filter.WithQuery(a.searchInput.Value())
	a.refreshResults()
}

func (a *App) refreshResults() {
	a.explore.results = discovery.Query(a.restaurants, a.explore.filter)
	a.explore.clamp()
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		a.debouncer.Stop()
		return a, tea.Quit
	}

	if a.explore.searching {
		return a.handleSearchKey(msg)
	}

	// Clear sticky error on any other keypress
	a.err = nil
	a.notice = ""

	// the form takes every key, including tab and q
	if a.mode == modeCompose {
		return a.handleComposeKey(msg)
	}

	switch msg.String() {
	case "q":
		a.debouncer.Stop()
		return a, tea.Quit
	case "tab":
		a.switchTab(1)
		return a, nil
	case "shift+tab":
		a.switchTab(-1)
		return a, nil
	case "r":
		a.loading = 3
		return a, tea.Batch(a.loadRestaurantsCmd(), a.loadPostsCmd(), a.loadUsersCmd(), a.spinner.Tick)
	case "w":
		id := ""
		if a.mode == modeDetail {
			id = a.detail.restaurant.ID
		}
		return a, a.openCompose(id)
	}

	switch a.mode {
	case modeFeed:
		return a.handleFeedKey(msg)
	case modeExplore:
		return a.handleExploreKey(msg)
	case modeUsers:
		return a.handleUsersKey(msg)
	case modeDetail:
		if isBack(msg) {
			a.mode = a.prev
		}
		return a, nil
	case modeProfile:
		return a.handleProfileKey(msg)
	}
	return a, nil
}

func (a *App) switchTab(step int) {
	cur := 0
	for i, t := range tabs {
		if t.mode == a.mode || (a.mode >= modeDetail && t.mode == a.prev) {
			cur = i
			break
		}
	}
	next := (cur + step + len(tabs)) % len(tabs)
	a.mode = tabs[next].mode
}

// openRestaurant switches to the detail view of the restaurant with id, if it is loaded.
func (a *App) openRestaurant(id string) tea.Cmd {
	for _, r := range a.restaurants {
		if r.ID == id {
			if a.mode < modeDetail {
				a.prev = a.mode
			}
			a.mode = modeDetail
			a.detail = detail{restaurant: r, loading: true}
			return tea.Batch(a.loadRestaurantReviewsCmd(id), a.spinner.Tick)
		}
	}
	a.err = errNotLoaded
	return nil
}

// openProfile switches to the profile view of the user with id, if it is loaded.
func (a *App) openProfile(id string) tea.Cmd {
	for _, u := range a.users {
		if u.ID == id {
			if a.mode < modeDetail {
				a.prev = a.mode
			}
			a.mode = modeProfile
			a.profile = profile{user: u, loading: true}
			return tea.Batch(a.loadUserReviewsCmd(id), a.spinner.Tick)
		}
	}
	a.err = errNotLoaded
	return nil
}

var errNotLoaded = errors.New("not loaded yet")

func isBack(msg tea.KeyMsg) bool {
	return msg.String() == "esc" || msg.String() == "backspace"
}

// errorText is what the UI shows for err: fetch failures get the generic message.
func errorText(err error) string {
	switch {
	case errors.Is(err, client.ErrNotFound):
		return "Not found"
	case errors.Is(err, client.ErrRateLimited):
		return client.RateLimitMessage
	case errors.Is(err, errNotLoaded):
		return "Still loading, try again"
	}
	return client.FetchMessage
}

func (a *App) View() string {
	var body, hints string
	switch a.mode {
	case modeFeed:
		body = a.feed.render(a.posts, a.width)
		hints = "j/k move  l like  enter restaurant  u author  w review  tab view  q quit"
	case modeExplore:
		body = a.explore.render(a.searchInput.View(), a.width)
		hints = "/ search  1-3 price  +/- rating  o open  s sort  x reset  enter open"
		if a.explore.searching {
			hints = "esc done  enter apply"
		}
	case modeUsers:
		body = a.community.render(a.users, a.width)
		hints = "j/k move  enter profile  tab view  q quit"
	case modeDetail:
		body = a.detail.render(a.today(), a.width)
		hints = "w write review  esc back  q quit"
	case modeProfile:
		body = a.profile.render(a.width)
		hints = "j/k move  enter restaurant  esc back  q quit"
	case modeCompose:
		body = a.compose.render(a.restaurants, a.width)
		hints = a.compose.hints()
	}

	parts := []string{a.renderHeader(), body}
	if a.err != nil {
		parts = append(parts, errorStyle.Render(errorText(a.err)))
	}
	if a.notice != "" {
		parts = append(parts, noticeStyle.Render(a.notice))
	}
	parts = append(parts, renderStatusBar(a.statusLeft(), hints, a.width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderHeader() string {
	sep := tabSeparatorStyle.Render(" · ")
	active := a.mode
	if a.mode >= modeDetail {
		active = a.prev
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := tabInactiveStyle
		if t.mode == active {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(t.label))
	}
	title := headerStyle.Render("BurgerSocial")
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", strings.Join(parts, sep)) + "\n"
}

func (a *App) statusLeft() string {
	if a.compose.submitting {
		return a.spinner.View() + " submitting"
	}
	if a.busy() {
		return a.spinner.View() + " loading"
	}
	switch a.mode {
	case modeExplore:
		return pluralize(len(a.explore.results), "restaurant")
	case modeFeed:
		return pluralize(len(a.posts), "post")
	case modeUsers:
		return pluralize(len(a.users), "member")
	}
	return ""
}

// today is the lower-case weekday name used as the WeeklyHours key.
func (a *App) today() string {
	return strings.ToLower(a.now().Weekday().String())
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.send = p.Send
	defer app.debouncer.Stop()
	_, err := p.Run()
	return err
}
