package catalog

import (
	"strconv"

	"github.com/fkgudeta/curio/internal/domain"
)

// NextPage returns a "next page" entry for route when the paginator says
// more pages exist. The entry keeps every parameter of route and sets
// page to current+1. requested is used when the API omits current_page.
func NextPage(route domain.Route, p domain.Paginator, requested int) (domain.Item, bool) {
	current := int(p.CurrentPage)
	if current <= 0 {
		current = requested
	}
	if int(p.TotalPages) <= current {
		return domain.Item{}, false
	}

	next := current + 1
	return domain.Item{
		Label: NextPageLabel(next),
		Route: route.With("page", strconv.Itoa(next)),
	}, true
}
