package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/fkgudeta/curio/internal/domain"
)

// PreviewDuration is the runtime shown for paid titles to logged-out viewers
const PreviewDuration = 120 * time.Second

// missingImage is the placeholder filename the API uses for absent art
const missingImage = "missing.png"

// Options carries the viewer state that shapes presentation items
type Options struct {
	LoggedIn          bool
	ChildFriendlyOnly bool
}

// Image returns url unless it points at the API's missing-image placeholder
func Image(url string) string {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(url)), missingImage) {
		return ""
	}
	return url
}

// Normalize maps a media record to a presentation item.
// It returns false when the record is hidden by the child-friendly filter.
func Normalize(m domain.Media, opts Options) (domain.Item, bool) {
	if opts.ChildFriendlyOnly && !m.IsChildFriendly {
		return domain.Item{}, false
	}

	duration := PreviewDuration
	if opts.LoggedIn || m.IsFree {
		duration = time.Duration(m.Duration) * time.Second
	}

	var route domain.Route
	switch {
	case m.IsNumberedSeries:
		route = domain.NewRoute(domain.RouteSeries, "id", m.ID.String())
	case m.IsCollection:
		route = domain.NewRoute(domain.RouteCollection, "id", m.ID.String())
	default:
		route = domain.NewRoute(domain.RoutePlay, "id", m.ID.String())
	}

	return domain.Item{
		Label:    m.Title,
		Plot:     m.Description,
		Duration: duration,
		Year:     m.YearProduced,
		Thumb:    Image(m.ImageMedium),
		Route:    route,
		Playable: !m.IsCollection && !m.IsNumberedSeries,
	}, true
}

// NormalizeAll maps records in order, dropping filtered and unpublished ones
func NormalizeAll(media []domain.Media, opts Options) []domain.Item {
	items := make([]domain.Item, 0, len(media))
	for _, m := range media {
		if !m.Published() {
			continue
		}
		if item, ok := Normalize(m, opts); ok {
			items = append(items, item)
		}
	}
	return items
}

// CategoryItem maps a category node: branches open their children,
// leaves list the media filed under the category name.
func CategoryItem(c domain.Category) domain.Item {
	route := domain.NewRoute(domain.RouteCategories, "id", c.ID.String())
	if !c.HasChildren() {
		route = domain.NewRoute(domain.RouteMedias,
			"title", c.Label,
			"filterby", "category",
			"term", c.Name,
		)
	}
	return domain.Item{
		Label: c.Label,
		Thumb: Image(c.ImageURL),
		Route: route,
	}
}

// CollectionItem maps a collection listing row
func CollectionItem(c domain.Collection) domain.Item {
	return domain.Item{
		Label: c.Title,
		Plot:  c.Description,
		Thumb: Image(c.ImageURL),
		Route: domain.NewRoute(domain.RouteCollection, "id", c.ID.String()),
	}
}

// NextPageLabel is the label of the synthetic next-page entry
func NextPageLabel(page int) string {
	return fmt.Sprintf("Next Page (%d)", page)
}
