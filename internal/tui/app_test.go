package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fkgudeta/curio/internal/domain"
	"github.com/fkgudeta/curio/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	loggedIn bool
	routes   []domain.Route
	results  map[string]domain.Result
	err      error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, r domain.Route) (domain.Result, error) {
	f.routes = append(f.routes, r)
	if f.err != nil {
		return domain.Result{}, f.err
	}
	return f.results[r.Name], nil
}

func (f *fakeDispatcher) LoggedIn() bool { return f.loggedIn }

type fakeLauncher struct {
	url       string
	subtitles []string
}

func (l *fakeLauncher) Launch(url string, subtitles []string) error {
	l.url = url
	l.subtitles = subtitles
	return nil
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(keyPress(string(r)))
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyPress(k))
	return next.(Model), cmd
}

func feed(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func homeFolder() *domain.Folder {
	return &domain.Folder{Items: []domain.Item{
		{Label: "Categories", Route: domain.NewRoute(domain.RouteCategories)},
		{Label: "Black Holes", Route: domain.NewRoute(domain.RoutePlay, "id", "42"), Playable: true},
	}}
}

func newTestModel(t *testing.T, d *fakeDispatcher) (Model, *fakeLauncher, domain.UserData) {
	t.Helper()
	ud, err := store.NewUserDataStore("")
	require.NoError(t, err)
	l := &fakeLauncher{}

	m := NewModel(d, l, ud, 0)
	m, _ = feed(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = feed(t, m, FolderLoadedMsg{Route: domain.NewRoute(domain.RouteIndex), Folder: homeFolder(), Mode: navReset})
	return m, l, ud
}

func TestEnterPushesFolderAndBackPops(t *testing.T) {
	d := &fakeDispatcher{results: map[string]domain.Result{
		domain.RouteCategories: {Folder: &domain.Folder{Title: "Categories", Items: []domain.Item{{Label: "Space"}}}},
	}}
	m, _, _ := newTestModel(t, d)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.True(t, m.Loading)

	m, _ = feed(t, m, cmd())
	assert.False(t, m.Loading)
	assert.Equal(t, 2, m.Columns.Len())
	assert.Equal(t, "Categories", m.Columns.Top().Title())
	assert.Equal(t, domain.RouteCategories, d.routes[0].Name)

	m, _ = press(t, m, "h")
	assert.Equal(t, 1, m.Columns.Len())

	m, _ = press(t, m, "h")
	assert.Equal(t, 1, m.Columns.Len(), "root is never popped")
}

func TestPlayLaunchesPlayer(t *testing.T) {
	d := &fakeDispatcher{results: map[string]domain.Result{
		domain.RoutePlay: {Playback: &domain.Playback{
			Item:      domain.Item{Label: "Black Holes"},
			URL:       "https://cdn/42/master.m3u8",
			Subtitles: []string{"/tmp/a.0.en.srt"},
		}},
	}}
	m, l, _ := newTestModel(t, d)

	m, _ = press(t, m, "j")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, PlaybackResolvedMsg{}, msg)

	m, cmd = feed(t, m, msg)
	require.NotNil(t, cmd)
	m, _ = feed(t, m, cmd())

	assert.Equal(t, "https://cdn/42/master.m3u8", l.url)
	assert.Equal(t, []string{"/tmp/a.0.en.srt"}, l.subtitles)
	assert.Equal(t, "Playing Black Holes", m.StatusMsg)
	assert.Equal(t, 1, m.Columns.Len())
}

func TestSearchPromptsWithStoredTerm(t *testing.T) {
	d := &fakeDispatcher{results: map[string]domain.Result{
		domain.RouteSearch: {Folder: &domain.Folder{Title: "Search: venus (1/1)"}},
	}}
	m, _, ud := newTestModel(t, d)
	require.NoError(t, ud.Set(domain.KeySearch, "venus"))

	m, cmd := press(t, m, "f")
	assert.Nil(t, cmd)
	require.True(t, m.InputModal.IsVisible())
	assert.Equal(t, "venus", m.InputModal.Value())

	m, cmd = press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.False(t, m.InputModal.IsVisible())

	cmd()
	require.Len(t, d.routes, 1)
	assert.Equal(t, "venus", d.routes[0].Get("query"))
}

func TestEmptyPromptCancels(t *testing.T) {
	d := &fakeDispatcher{}
	m, _, _ := newTestModel(t, d)

	m, _ = press(t, m, "c")
	require.True(t, m.InputModal.IsVisible())

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.False(t, m.InputModal.IsVisible())
	assert.Empty(t, d.routes)
}

func TestEscClosesPrompt(t *testing.T) {
	d := &fakeDispatcher{}
	m, _, _ := newTestModel(t, d)

	m, _ = press(t, m, "f")
	m, _ = press(t, m, "esc")
	assert.False(t, m.InputModal.IsVisible())
	assert.Nil(t, m.pending)
}

func TestLoginChain(t *testing.T) {
	d := &fakeDispatcher{}
	m, _, _ := newTestModel(t, d)

	m, _ = press(t, m, "L")
	require.True(t, m.InputModal.IsVisible())
	m = typeText(t, m, "a@b.c")
	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	require.True(t, m.InputModal.IsVisible(), "password prompt follows")

	m = typeText(t, m, "secret")
	m, cmd = press(t, m, "enter")
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, ActionDoneMsg{}, msg)
	route := d.routes[0]
	assert.Equal(t, domain.RouteLogin, route.Name)
	assert.Equal(t, "a@b.c", route.Get("username"))
	assert.Equal(t, "secret", route.Get("password"))

	m, cmd = feed(t, m, msg)
	assert.Equal(t, "Logged in", m.StatusMsg)
	assert.NotNil(t, cmd, "home is reloaded")
}

func TestLoginIgnoredWhenLoggedIn(t *testing.T) {
	d := &fakeDispatcher{loggedIn: true}
	m, _, _ := newTestModel(t, d)

	m, _ = press(t, m, "L")
	assert.False(t, m.InputModal.IsVisible())
}

func TestLogoutConfirm(t *testing.T) {
	d := &fakeDispatcher{loggedIn: true}
	m, _, _ := newTestModel(t, d)

	m, _ = press(t, m, "O")
	require.True(t, m.ConfirmModal.IsVisible())
	m, cmd := press(t, m, "n")
	assert.Nil(t, cmd)
	assert.False(t, m.ConfirmModal.IsVisible())

	m, _ = press(t, m, "O")
	m, cmd = press(t, m, "y")
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, d.routes, 1)
	assert.Equal(t, domain.RouteLogout, d.routes[0].Name)
	assert.True(t, d.routes[0].Bool("confirm", false))
}

func TestDispatchErrorShowsStatus(t *testing.T) {
	d := &fakeDispatcher{err: &domain.CategoryNotFoundError{ID: "9"}}
	m, _, _ := newTestModel(t, d)

	m, cmd := press(t, m, "enter")
	msg := cmd()
	var errMsg ErrMsg
	require.True(t, errors.As(msg.(error), &errMsg))

	m, _ = feed(t, m, msg)
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "category not found: 9")
	assert.False(t, m.Loading)
}

func TestRefreshReplacesTop(t *testing.T) {
	d := &fakeDispatcher{results: map[string]domain.Result{
		domain.RouteIndex: {Folder: &domain.Folder{Title: "Home", Items: []domain.Item{{Label: "Only"}}}},
	}}
	m, _, _ := newTestModel(t, d)

	m, cmd := press(t, m, "r")
	m, _ = feed(t, m, cmd())

	assert.Equal(t, 1, m.Columns.Len())
	assert.Equal(t, "Home", m.Columns.Top().Title())
}

func TestViewRenders(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeDispatcher{})
	view := m.View()
	assert.Contains(t, view, "Categories")
	assert.Contains(t, view, "Info")

	m, _ = press(t, m, "?")
	assert.Contains(t, m.View(), "Search catalog")
}
