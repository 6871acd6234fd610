package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/fkgudeta/curio/internal/catalog"
	"github.com/fkgudeta/curio/internal/curiosity"
	"github.com/fkgudeta/curio/internal/domain"
)

func required(r domain.Route, key string) (string, error) {
	v := r.Get(key)
	if v == "" {
		return "", fmt.Errorf("route %q: missing parameter %q", r.Name, key)
	}
	return v, nil
}

func (d *Dispatcher) index(_ context.Context, _ domain.Route) (domain.Result, error) {
	folder := &domain.Folder{}

	if !d.client.LoggedIn() {
		folder.Add(domain.Item{Label: labelLogin, Route: domain.NewRoute(domain.RouteLogin)})
	}

	folder.Add(
		domain.Item{Label: labelCategories, Route: domain.NewRoute(domain.RouteCategories)},
		domain.Item{Label: labelCollections, Route: domain.NewRoute(domain.RouteCollections)},
		domain.Item{Label: labelFeatured, Route: domain.NewRoute(domain.RouteFeatured)},
		domain.Item{Label: labelSearch, Route: domain.NewRoute(domain.RouteSearch)},
		domain.Item{Label: labelSearchCategory, Route: domain.NewRoute(domain.RouteCategorySearch)},
	)

	if d.client.LoggedIn() {
		folder.Add(domain.Item{Label: labelLogout, Route: domain.NewRoute(domain.RouteLogout)})
	}

	return folderResult(folder)
}

func (d *Dispatcher) categories(ctx context.Context, r domain.Route) (domain.Result, error) {
	tree, err := d.client.Categories(ctx)
	if err != nil {
		return domain.Result{}, err
	}

	folder := &domain.Folder{Title: labelCategories}
	nodes := tree

	if id := r.Get("id"); id != "" {
		node, ok := catalog.FindCategory(tree, id)
		if !ok {
			return domain.Result{}, &domain.CategoryNotFoundError{ID: id}
		}
		folder.Title = node.Label
		nodes = node.Subcategories
	}

	for _, c := range nodes {
		folder.Add(catalog.CategoryItem(c))
	}
	return folderResult(folder)
}

func (d *Dispatcher) categorySearch(ctx context.Context, r domain.Route) (domain.Result, error) {
	query := strings.TrimSpace(r.Get("query"))
	if query == "" {
		q, err := d.input(askCategory, "", false)
		if err != nil {
			return domain.Result{}, err
		}
		query = strings.TrimSpace(q)
		if query == "" {
			return domain.Result{}, nil
		}
	}

	tree, err := d.client.Categories(ctx)
	if err != nil {
		return domain.Result{}, err
	}

	folder := &domain.Folder{Title: labelCategories + ": " + query}
	for _, c := range catalog.SearchCategories(tree, query) {
		folder.Add(catalog.CategoryItem(c))
	}
	return folderResult(folder)
}

func (d *Dispatcher) medias(ctx context.Context, r domain.Route) (domain.Result, error) {
	filterBy, err := required(r, "filterby")
	if err != nil {
		return domain.Result{}, err
	}
	term, err := required(r, "term")
	if err != nil {
		return domain.Result{}, err
	}
	page := r.Int("page", 1)

	data, err := d.client.FilterMedia(ctx, filterBy, term, r.Bool("collections", true), page)
	if err != nil {
		return domain.Result{}, err
	}

	folder := &domain.Folder{Title: r.Get("title")}
	folder.Add(catalog.NormalizeAll(data.Data, d.normalizeOptions())...)
	if next, ok := catalog.NextPage(r, data.Paginator, page); ok {
		folder.Add(next)
	}
	return folderResult(folder)
}

func (d *Dispatcher) collections(ctx context.Context, r domain.Route) (domain.Result, error) {
	page := r.Int("page", 1)

	data, err := d.client.Collections(ctx, false, true, page)
	if err != nil {
		return domain.Result{}, err
	}

	folder := &domain.Folder{Title: labelCollections}
	for _, c := range data.Data {
		folder.Add(catalog.CollectionItem(c))
	}
	if next, ok := catalog.NextPage(r, data.Paginator, page); ok {
		folder.Add(next)
	}
	return folderResult(folder)
}

func (d *Dispatcher) collection(ctx context.Context, r domain.Route) (domain.Result, error) {
	id, err := required(r, "id")
	if err != nil {
		return domain.Result{}, err
	}

	c, err := d.client.Collection(ctx, id, false)
	if err != nil {
		return domain.Result{}, err
	}

	folder := &domain.Folder{Title: c.Title, Fanart: catalog.Image(c.BackgroundURL)}
	folder.Add(catalog.NormalizeAll(c.Media, d.normalizeOptions())...)
	return folderResult(folder)
}

func (d *Dispatcher) series(ctx context.Context, r domain.Route) (domain.Result, error) {
	id, err := required(r, "id")
	if err != nil {
		return domain.Result{}, err
	}

	s, err := d.client.Series(ctx, id)
	if err != nil {
		return domain.Result{}, err
	}

	folder := &domain.Folder{Title: s.Title, Fanart: catalog.Image(s.ImageLarge)}
	folder.Add(catalog.NormalizeAll(s.Media, d.normalizeOptions())...)
	return folderResult(folder)
}

// featured lists the groups of a section, or the media of one group
func (d *Dispatcher) featured(ctx context.Context, r domain.Route) (domain.Result, error) {
	id := r.Get("id")
	if id == "" {
		id = d.opts.FeaturedSection
	}
	page := r.Int("page", 1)

	section, err := d.client.Section(ctx, id, page)
	if err != nil {
		return domain.Result{}, err
	}

	if groupID := r.Get("group"); groupID != "" {
		group, ok := section.Group(groupID)
		if !ok {
			return domain.Result{}, fmt.Errorf("featured section %s has no group %s", id, groupID)
		}
		folder := &domain.Folder{Title: group.Label}
		folder.Add(catalog.NormalizeAll(group.Media, d.normalizeOptions())...)
		return folderResult(folder)
	}

	title := section.Label
	if title == "" {
		title = labelFeatured
	}
	folder := &domain.Folder{Title: title}
	for _, g := range section.Groups {
		folder.Add(domain.Item{
			Label: g.Label,
			Route: r.With("id", id).With("group", g.ID.String()),
		})
	}
	if next, ok := catalog.NextPage(r, section.Paginator, page); ok {
		folder.Add(next)
	}
	return folderResult(folder)
}

func (d *Dispatcher) search(ctx context.Context, r domain.Route) (domain.Result, error) {
	page := r.Int("page", 1)

	query := strings.TrimSpace(r.Get("query"))
	if query == "" {
		q, err := d.input(labelSearch, d.userdata.Get(domain.KeySearch), false)
		if err != nil {
			return domain.Result{}, err
		}
		query = strings.TrimSpace(q)
		if query == "" {
			return domain.Result{}, nil
		}
		r = r.With("query", query)
	}
	if err := d.userdata.Set(domain.KeySearch, query); err != nil {
		d.logger.Warn("failed to persist search term", "error", err)
	}

	data, err := d.client.FilterMedia(ctx, "keyword", query, true, page)
	if err != nil {
		return domain.Result{}, err
	}

	folder := &domain.Folder{
		Title: fmt.Sprintf(searchFormat, query, page, int(data.Paginator.TotalPages)),
	}
	folder.Add(catalog.NormalizeAll(data.Data, d.normalizeOptions())...)
	if next, ok := catalog.NextPage(r, data.Paginator, page); ok {
		folder.Add(next)
	}
	return folderResult(folder)
}

func (d *Dispatcher) login(ctx context.Context, r domain.Route) (domain.Result, error) {
	username := strings.TrimSpace(r.Get("username"))
	if username == "" {
		u, err := d.input(askUsername, d.userdata.Get(domain.KeyUsername), false)
		if err != nil {
			return domain.Result{}, err
		}
		if username = strings.TrimSpace(u); username == "" {
			return domain.Result{}, nil
		}
	}
	if err := d.userdata.Set(domain.KeyUsername, username); err != nil {
		d.logger.Warn("failed to persist username", "error", err)
	}

	password := strings.TrimSpace(r.Get("password"))
	if password == "" {
		p, err := d.input(askPassword, "", true)
		if err != nil {
			return domain.Result{}, err
		}
		if password = strings.TrimSpace(p); password == "" {
			return domain.Result{}, nil
		}
	}

	if err := d.client.Login(ctx, username, password); err != nil {
		return domain.Result{}, err
	}
	d.logger.Info("logged in", "username", username)
	return domain.Result{}, nil
}

func (d *Dispatcher) logout(_ context.Context, r domain.Route) (domain.Result, error) {
	if !r.Bool("confirm", false) {
		if d.prompter == nil {
			return domain.Result{}, domain.ErrInputRequired
		}
		ok, err := d.prompter.Confirm(askLogout)
		if err != nil {
			return domain.Result{}, err
		}
		if !ok {
			return domain.Result{}, nil
		}
	}

	if err := d.client.Logout(); err != nil {
		return domain.Result{}, err
	}
	d.logger.Info("logged out")
	return domain.Result{}, nil
}

func (d *Dispatcher) play(ctx context.Context, r domain.Route) (domain.Result, error) {
	id, err := required(r, "id")
	if err != nil {
		return domain.Result{}, err
	}

	m, err := d.client.Media(ctx, id)
	if err != nil {
		return domain.Result{}, err
	}

	url, err := curiosity.PlaybackURL(m)
	if err != nil {
		return domain.Result{}, fmt.Errorf("media %s: %w", id, err)
	}

	// the viewer asked for this title, so the child filter does not apply
	item, _ := catalog.Normalize(*m, catalog.Options{LoggedIn: d.client.LoggedIn()})
	item.Fanart = catalog.Image(m.ImageLarge)

	playback := &domain.Playback{
		Item:        item,
		URL:         url,
		InputStream: domain.InputStreamHLS,
	}
	if d.opts.Subtitles && d.subtitles != nil && len(m.ClosedCaptions) > 0 {
		playback.Subtitles = d.subtitles.Convert(ctx, m.ClosedCaptions)
	}

	d.logger.Info("resolved playback", "id", id, "title", m.Title, "subtitles", len(playback.Subtitles))
	return domain.Result{Playback: playback}, nil
}
