package curiosity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fkgudeta/curio/internal/cache"
	"github.com/fkgudeta/curio/internal/domain"
	"github.com/fkgudeta/curio/internal/log"
	"github.com/fkgudeta/curio/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

type fixture struct {
	client   *Client
	userdata *store.UserDataStore
	clock    *testClock
	hits     map[string]*atomic.Int32
	server   *httptest.Server
}

// newFixture serves routes from a path -> handler map and counts hits per path
func newFixture(t *testing.T, routes map[string]http.HandlerFunc) *fixture {
	t.Helper()

	f := &fixture{
		clock: &testClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		hits:  make(map[string]*atomic.Int32),
	}
	for path := range routes {
		f.hits[path] = &atomic.Int32{}
	}

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		f.hits[r.URL.Path].Add(1)
		h(w, r)
	}))
	t.Cleanup(f.server.Close)

	userdata, err := store.NewUserDataStore("")
	require.NoError(t, err)
	f.userdata = userdata

	responses := cache.New(time.Minute).WithClock(f.clock.Now)
	f.client = NewClient(f.server.URL, 5*time.Second, userdata, responses, log.NullLogger())
	return f
}

func (f *fixture) count(path string) int {
	return int(f.hits[path].Load())
}

func writeJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

const categoriesBody = `{"data":[{"id":1,"label":"Science","name":"science","subcategories":[{"id":"11","label":"Space","name":"space"}]}]}`

func TestNewSession_AttachesStoredToken(t *testing.T) {
	var gotAuth string
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/categories": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			writeJSON(categoriesBody)(w, r)
		},
	})
	assert.False(t, f.client.LoggedIn())

	require.NoError(t, f.userdata.Set(domain.KeyToken, "stored-token"))
	f.client.NewSession()
	assert.True(t, f.client.LoggedIn())

	_, err := f.client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored-token", gotAuth)
}

func TestLogin_PersistsTokenAndAuthenticates(t *testing.T) {
	var got loginRequest
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/login/": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeJSON(`{"message":{"auth_token":"fresh-token"}}`)(w, r)
		},
	})

	err := f.client.Login(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, loginRequest{Email: "ada@example.com", Password: "hunter2", Platform: "google"}, got)
	assert.Equal(t, "fresh-token", f.userdata.Get(domain.KeyToken))
	assert.True(t, f.client.LoggedIn())
}

func TestLogin_ErrorMessageExtracted(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/login/": writeJSON(`{"error":{"message":{"base":["bad password"]}}}`),
	})

	err := f.client.Login(context.Background(), "ada@example.com", "wrong")

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad password", apiErr.Message)
	assert.False(t, f.client.LoggedIn())
}

func TestLogin_ErrorWithoutNestedMessage(t *testing.T) {
	for name, body := range map[string]string{
		"no message":      `{"error":{"code":401}}`,
		"string message":  `{"error":{"message":"nope"}}`,
		"empty base":      `{"error":{"message":{"base":[]}}}`,
		"error is string": `{"error":"denied"}`,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, map[string]http.HandlerFunc{
				"/v1/login/": writeJSON(body),
			})

			err := f.client.Login(context.Background(), "ada@example.com", "wrong")

			var apiErr *domain.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "", apiErr.Message)
		})
	}
}

func TestLogin_LogsOutFirst(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/login/": func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"), "login must run on a clean session")
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(`{"error":{"message":{"base":["bad password"]}}}`)(w, r)
		},
	})
	require.NoError(t, f.userdata.Set(domain.KeyToken, "old-token"))
	require.NoError(t, f.userdata.Set(domain.KeyDeviceID, "device"))
	f.client.NewSession()

	err := f.client.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)

	assert.Equal(t, "", f.userdata.Get(domain.KeyToken))
	assert.Equal(t, "", f.userdata.Get(domain.KeyDeviceID))
	assert.False(t, f.client.LoggedIn())
}

func TestLogin_MissingTokenIsMalformed(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/login/": writeJSON(`{"message":{}}`),
	})

	err := f.client.Login(context.Background(), "ada@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestCategories_CachedWithinTTL(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/categories": writeJSON(categoriesBody),
	})
	ctx := context.Background()

	first, err := f.client.Categories(ctx)
	require.NoError(t, err)
	f.clock.t = f.clock.t.Add(30 * time.Second)
	second, err := f.client.Categories(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, f.count("/v1/categories"))
	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Equal(t, domain.ID("1"), first[0].ID)
	assert.Equal(t, domain.ID("11"), first[0].Subcategories[0].ID)
}

func TestCategories_RefetchAfterTTL(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/categories": writeJSON(categoriesBody),
	})
	ctx := context.Background()

	_, err := f.client.Categories(ctx)
	require.NoError(t, err)
	f.clock.t = f.clock.t.Add(time.Minute)
	_, err = f.client.Categories(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, f.count("/v1/categories"))
}

func TestLogout_InvalidatesCache(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v2/series/9": writeJSON(`{"data":{"id":9,"title":"Deep Time","media":[]}}`),
	})
	ctx := context.Background()

	_, err := f.client.Series(ctx, "9")
	require.NoError(t, err)
	require.NoError(t, f.client.Logout())
	_, err = f.client.Series(ctx, "9")
	require.NoError(t, err)

	assert.Equal(t, 2, f.count("/v2/series/9"))
}

func TestMedia_NeverCached(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/media/5": writeJSON(`{"data":{"id":5,"title":"Volcanoes","encodings":[{"master_playlist_url":"https://cdn.example/5.m3u8"}]}}`),
	})
	ctx := context.Background()

	m, err := f.client.Media(ctx, "5")
	require.NoError(t, err)
	_, err = f.client.Media(ctx, "5")
	require.NoError(t, err)

	assert.Equal(t, 2, f.count("/v1/media/5"))
	u, err := PlaybackURL(m)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/5.m3u8", u)
}

func TestFilterMedia_QueryAndPaginator(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/media": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "category", q.Get("filterBy"))
			assert.Equal(t, "space", q.Get("term"))
			assert.Equal(t, "true", q.Get("collections"))
			assert.Equal(t, "20", q.Get("limit"))
			assert.Equal(t, "2", q.Get("page"))
			writeJSON(`{"data":[{"id":1,"title":"A"},{"id":2,"title":"B"}],"paginator":{"total_pages":"3","current_page":2}}`)(w, r)
		},
	})
	ctx := context.Background()

	page, err := f.client.FilterMedia(ctx, "category", "space", true, 2)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, domain.Count(3), page.Paginator.TotalPages)
	assert.Equal(t, domain.Count(2), page.Paginator.CurrentPage)

	// same arguments are served from cache
	_, err = f.client.FilterMedia(ctx, "category", "space", true, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, f.count("/v1/media"))
}

func TestCollections_Query(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v2/collections": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "false", q.Get("flattened"))
			assert.Equal(t, "true", q.Get("excludeMedia"))
			assert.Equal(t, "20", q.Get("limit"))
			writeJSON(`{"data":[{"id":3,"title":"Oceans"}],"paginator":{"total_pages":1,"current_page":1}}`)(w, r)
		},
		"/v2/collections/3": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("flattened"))
			writeJSON(`{"data":{"id":3,"title":"Oceans","media":[{"id":30,"title":"Reefs"}]}}`)(w, r)
		},
	})
	ctx := context.Background()

	page, err := f.client.Collections(ctx, false, true, 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Oceans", page.Data[0].Title)

	col, err := f.client.Collection(ctx, "3", true)
	require.NoError(t, err)
	require.Len(t, col.Media, 1)
	assert.Equal(t, "Reefs", col.Media[0].Title)
}

func TestSection_FixedMediaLimit(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/sections/home/mobile": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "36", r.URL.Query().Get("media_limit"))
			writeJSON(`{"data":{"id":"home","label":"Featured","groups":[{"id":1,"label":"New","media":[{"id":8,"title":"Mars"}]}]},"paginator":{"total_pages":2,"current_page":1}}`)(w, r)
		},
	})

	section, err := f.client.Section(context.Background(), "home", 1)
	require.NoError(t, err)
	assert.Equal(t, "Featured", section.Label)
	assert.Equal(t, domain.Count(2), section.Paginator.TotalPages)
	g, ok := section.Group("1")
	require.True(t, ok)
	assert.Equal(t, "Mars", g.Media[0].Title)
}

func TestErrorKey_UniformAcrossEndpointsAndNotCached(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v2/series/1": writeJSON(`{"error":{"message":{"base":["series unavailable"]}}}`),
	})
	ctx := context.Background()

	_, err := f.client.Series(ctx, "1")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "series unavailable", apiErr.Message)

	_, err = f.client.Series(ctx, "1")
	require.Error(t, err)
	assert.Equal(t, 2, f.count("/v2/series/1"))
}

func TestMissingData_IsMalformed(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/media/1": writeJSON(`{"result":{}}`),
	})

	_, err := f.client.Media(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestUnexpectedStatus(t *testing.T) {
	f := newFixture(t, map[string]http.HandlerFunc{
		"/v1/categories": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
	})

	_, err := f.client.Categories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestServerOffline(t *testing.T) {
	f := newFixture(t, nil)
	f.server.Close()

	_, err := f.client.Categories(context.Background())
	assert.True(t, errors.Is(err, domain.ErrServerOffline))
}

func TestPlaybackURL_MissingEncodings(t *testing.T) {
	_, err := PlaybackURL(&domain.Media{ID: "1"})
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)

	_, err = PlaybackURL(&domain.Media{Encodings: []domain.Encoding{{Type: "hls"}}})
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestFetchCaption_NoAuthHeader(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte("WEBVTT\n"))
	}))
	defer cdn.Close()

	f := newFixture(t, nil)
	require.NoError(t, f.userdata.Set(domain.KeyToken, "secret"))
	f.client.NewSession()

	data, err := f.client.FetchCaption(context.Background(), cdn.URL+"/en.vtt")
	require.NoError(t, err)
	assert.Equal(t, "WEBVTT\n", string(data))
}
