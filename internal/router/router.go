// Package router maps navigation routes to folders and playable items.
package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fkgudeta/curio/internal/catalog"
	"github.com/fkgudeta/curio/internal/domain"
)

// api is the remote catalog (consumer-defined interface)
type api interface {
	NewSession()
	LoggedIn() bool
	Login(ctx context.Context, username, password string) error
	Logout() error
	Categories(ctx context.Context) ([]domain.Category, error)
	Media(ctx context.Context, id string) (*domain.Media, error)
	FilterMedia(ctx context.Context, filterBy, term string, collections bool, page int) (domain.Page[domain.Media], error)
	Series(ctx context.Context, id string) (*domain.Series, error)
	Collection(ctx context.Context, id string, flattened bool) (*domain.Collection, error)
	Collections(ctx context.Context, flattened, excludeMedia bool, page int) (domain.Page[domain.Collection], error)
	Section(ctx context.Context, id string, page int) (*domain.Section, error)
}

// converter turns caption tracks into local subtitle files
type converter interface {
	Convert(ctx context.Context, captions []domain.Caption) []string
}

// Prompter asks the user for input a route needs.
// Input returns an empty string when the user cancels.
type Prompter interface {
	Input(title, def string, hidden bool) (string, error)
	Confirm(message string) (bool, error)
}

// Options are the viewer preferences that shape dispatch results
type Options struct {
	ChildFriendlyOnly bool
	Subtitles         bool
	FeaturedSection   string
}

type handler func(ctx context.Context, r domain.Route) (domain.Result, error)

// Dispatcher resolves routes against the API
type Dispatcher struct {
	client    api
	userdata  domain.UserData
	subtitles converter
	prompter  Prompter
	opts      Options
	logger    *slog.Logger

	routes map[string]handler
}

// New creates a Dispatcher. subtitles may be nil to disable captions.
func New(client api, userdata domain.UserData, subtitles converter, opts Options, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.FeaturedSection == "" {
		opts.FeaturedSection = "1"
	}

	d := &Dispatcher{
		client:    client,
		userdata:  userdata,
		subtitles: subtitles,
		opts:      opts,
		logger:    logger,
	}
	d.routes = map[string]handler{
		domain.RouteIndex:          d.index,
		domain.RouteCategories:     d.categories,
		domain.RouteCategorySearch: d.categorySearch,
		domain.RouteMedias:         d.medias,
		domain.RouteCollections:    d.collections,
		domain.RouteCollection:     d.collection,
		domain.RouteSeries:         d.series,
		domain.RouteFeatured:       d.featured,
		domain.RouteSearch:         d.search,
		domain.RouteLogin:          d.login,
		domain.RouteLogout:         d.logout,
		domain.RoutePlay:           d.play,
	}
	return d
}

// SetPrompter installs the prompter used by search, login and logout.
// Without one those routes need their input passed as route params.
func (d *Dispatcher) SetPrompter(p Prompter) {
	d.prompter = p
}

// LoggedIn reports the state of the session the last dispatch built
func (d *Dispatcher) LoggedIn() bool {
	return d.client.LoggedIn()
}

// DispatchPath parses a curio:// path and dispatches it
func (d *Dispatcher) DispatchPath(ctx context.Context, path string) (domain.Result, error) {
	r, err := domain.ParseRoute(path)
	if err != nil {
		return domain.Result{}, err
	}
	return d.Dispatch(ctx, r)
}

// Dispatch rebuilds the API session from stored credentials and runs the
// route's handler.
func (d *Dispatcher) Dispatch(ctx context.Context, r domain.Route) (domain.Result, error) {
	h, ok := d.routes[r.Name]
	if !ok {
		return domain.Result{}, fmt.Errorf("unknown route %q", r.Name)
	}

	d.client.NewSession()
	d.logger.Debug("dispatching route", "route", r, "logged_in", d.client.LoggedIn())

	res, err := h(ctx, r)
	if err != nil {
		d.logger.Error("route failed", "route", r, "error", err)
		return domain.Result{}, err
	}
	return res, nil
}

func (d *Dispatcher) normalizeOptions() catalog.Options {
	return catalog.Options{
		LoggedIn:          d.client.LoggedIn(),
		ChildFriendlyOnly: d.opts.ChildFriendlyOnly,
	}
}

// input returns the trimmed answer to a prompt, or ErrInputRequired
// when there is no prompter.
func (d *Dispatcher) input(title, def string, hidden bool) (string, error) {
	if d.prompter == nil {
		return "", domain.ErrInputRequired
	}
	return d.prompter.Input(title, def, hidden)
}

func folderResult(f *domain.Folder) (domain.Result, error) {
	return domain.Result{Folder: f}, nil
}
