package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute_RoundTrip(t *testing.T) {
	r := NewRoute(RouteMedias, "title", "Space & Time", "filterby", "category", "term", "space", "page", "2")

	parsed, err := ParseRoute(r.String())
	require.NoError(t, err)
	assert.Equal(t, RouteMedias, parsed.Name)
	assert.Equal(t, "Space & Time", parsed.Get("title"))
	assert.Equal(t, 2, parsed.Int("page", 1))
}

func TestRoute_Index(t *testing.T) {
	parsed, err := ParseRoute(NewRoute(RouteIndex).String())
	require.NoError(t, err)
	assert.Equal(t, RouteIndex, parsed.Name)
	assert.Empty(t, parsed.Params)
}

func TestRoute_DropsEmptyValues(t *testing.T) {
	r := NewRoute(RouteCategories, "id", "")
	assert.False(t, r.Params.Has("id"))
}

func TestRoute_Accessors(t *testing.T) {
	r := NewRoute(RouteSearch, "page", "x", "collections", "1")
	assert.Equal(t, 1, r.Int("page", 1), "invalid ints fall back")
	assert.Equal(t, 7, r.Int("missing", 7))
	assert.True(t, r.Bool("collections", false))
	assert.False(t, r.Bool("missing", false))
}

func TestRoute_WithCopies(t *testing.T) {
	r := NewRoute(RouteCollections, "page", "1")
	next := r.With("page", "2")
	assert.Equal(t, "1", r.Get("page"))
	assert.Equal(t, "2", next.Get("page"))
}

func TestParseRoute_RejectsOtherSchemes(t *testing.T) {
	_, err := ParseRoute("https://example.com/play?id=1")
	assert.Error(t, err)
}

func TestRoute_RedactsPassword(t *testing.T) {
	r := NewRoute(RouteLogin, "username", "a@b.c", "password", "s3cret")

	assert.NotContains(t, r.Redacted(), "s3cret")
	assert.Contains(t, r.Redacted(), "password=REDACTED")
	assert.Equal(t, r.Redacted(), r.LogValue().String())
	assert.Equal(t, "s3cret", r.Get("password"), "route itself is unchanged")

	plain := NewRoute(RouteSearch, "query", "whales")
	assert.Equal(t, plain.String(), plain.Redacted())
}
