package catalog

import (
	"testing"

	"github.com/fkgudeta/curio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPage(t *testing.T) {
	route := domain.NewRoute(domain.RouteMedias, "title", "Space", "filterby", "category", "term", "space", "page", "1")

	item, ok := NextPage(route, domain.Paginator{TotalPages: 3, CurrentPage: 1}, 1)
	require.True(t, ok)
	assert.Equal(t, domain.RouteMedias, item.Route.Name)
	assert.Equal(t, "2", item.Route.Get("page"))
	assert.Equal(t, "Space", item.Route.Get("title"))
	assert.Equal(t, "category", item.Route.Get("filterby"))
	assert.Equal(t, "space", item.Route.Get("term"))
	assert.Equal(t, "1", route.Get("page"), "original route is not modified")

	_, ok = NextPage(route, domain.Paginator{TotalPages: 3, CurrentPage: 3}, 3)
	assert.False(t, ok)
}

func TestNextPage_FallsBackToRequestedPage(t *testing.T) {
	route := domain.NewRoute(domain.RouteCollections)

	item, ok := NextPage(route, domain.Paginator{TotalPages: 2}, 1)
	require.True(t, ok)
	assert.Equal(t, "2", item.Route.Get("page"))

	_, ok = NextPage(route, domain.Paginator{TotalPages: 2}, 2)
	assert.False(t, ok)

	_, ok = NextPage(route, domain.Paginator{}, 1)
	assert.False(t, ok)
}
