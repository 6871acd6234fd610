package curiosity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/fkgudeta/curio/internal/cache"
	"github.com/fkgudeta/curio/internal/domain"
)

const (
	pageLimit    = 20 // items per page on list endpoints
	sectionLimit = 36 // media per featured section
	platform     = "google"
)

// Client is the CuriosityStream API client. It owns the active Session
// and the response cache; catalog reads go through the cache, media
// lookups (consulted right before playback) never do.
type Client struct {
	baseURL  string
	timeout  time.Duration
	userdata domain.UserData
	cache    *cache.Cache
	logger   *slog.Logger

	mu       sync.RWMutex // guards session swaps
	session  *Session
	loggedIn bool
}

// NewClient creates a client and starts an initial session
func NewClient(baseURL string, timeout time.Duration, userdata domain.UserData, responses *cache.Cache, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if responses == nil {
		responses = cache.New(5 * time.Minute)
	}
	c := &Client{
		baseURL:  baseURL,
		timeout:  timeout,
		userdata: userdata,
		cache:    responses,
		logger:   logger,
	}
	c.NewSession()
	return c
}

// NewSession replaces the current session with an unauthenticated one,
// then attaches the stored token if there is one.
func (c *Client) NewSession() {
	s := newSession(c.baseURL, c.timeout)
	loggedIn := false
	if token := c.userdata.Get(domain.KeyToken); token != "" {
		s.authenticate(token)
		loggedIn = true
	}

	c.mu.Lock()
	c.session = s
	c.loggedIn = loggedIn
	c.mu.Unlock()
}

// LoggedIn reports whether the current session carries a token
func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loggedIn
}

// Login exchanges credentials for an auth token and persists it.
// Any previous session is logged out first, even if login then fails.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if err := c.Logout(); err != nil {
		return err
	}

	body, err := c.request(ctx, "login", http.MethodPost, "/v1/login/", nil, loginRequest{
		Email:    username,
		Password: password,
		Platform: platform,
	})
	if err != nil {
		return err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}
	if resp.Message.AuthToken == "" {
		return fmt.Errorf("%w: missing auth token", domain.ErrMalformedResponse)
	}

	if err := c.userdata.Set(domain.KeyToken, resp.Message.AuthToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	c.NewSession()

	c.logger.Info("logged in")
	return nil
}

// Logout forgets the persisted credentials, drops every cached response
// and starts a fresh session.
func (c *Client) Logout() error {
	if err := c.userdata.Delete(domain.KeyToken); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if err := c.userdata.Delete(domain.KeyDeviceID); err != nil {
		return fmt.Errorf("failed to delete device id: %w", err)
	}
	c.cache.Clear()
	c.NewSession()
	return nil
}

// request performs one API call. A body carrying an "error" key is always
// returned as *domain.APIError, whatever the endpoint or status code.
func (c *Client) request(ctx context.Context, endpoint, method, path string, query url.Values, payload any) ([]byte, error) {
	c.mu.RLock()
	s := c.session
	c.mu.RUnlock()

	metrics.GetOrCreateCounter(fmt.Sprintf(`curio_api_requests_total{endpoint=%q}`, endpoint)).Inc()
	c.logger.Debug("api request", "method", method, "path", path, "query", query.Encode())

	status, body, err := s.do(ctx, method, path, query, payload)
	if err != nil {
		if status == 0 {
			c.logger.Error("api request failed", "error", err, "path", path)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}
		return nil, err
	}

	if apiErr := apiError(body, status); apiErr != nil {
		c.logger.Warn("api reported error", "path", path, "status", status, "message", apiErr.Message)
		return nil, apiErr
	}

	if status < 200 || status >= 300 {
		c.logger.Error("api request error", "status", status, "path", path, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", status)
	}

	return body, nil
}

// Categories returns the full category tree
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	return cache.Do(c.cache, "categories", nil, func() ([]domain.Category, error) {
		body, err := c.request(ctx, "categories", http.MethodGet, "/v1/categories", nil, nil)
		if err != nil {
			return nil, err
		}
		return decodeData[[]domain.Category](body)
	})
}

// Media returns a single media record. Never cached: encoding URLs must be
// fresh at play time.
func (c *Client) Media(ctx context.Context, id string) (*domain.Media, error) {
	body, err := c.request(ctx, "media", http.MethodGet, "/v1/media/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	m, err := decodeData[domain.Media](body)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FilterMedia lists media matching filterBy=term (category name, keyword...)
func (c *Client) FilterMedia(ctx context.Context, filterBy, term string, collections bool, page int) (domain.Page[domain.Media], error) {
	args := []any{filterBy, term, collections, page}
	return cache.Do(c.cache, "filter_media", args, func() (domain.Page[domain.Media], error) {
		query := url.Values{}
		query.Set("filterBy", filterBy)
		query.Set("term", term)
		query.Set("collections", strconv.FormatBool(collections))
		query.Set("limit", strconv.Itoa(pageLimit))
		query.Set("page", strconv.Itoa(page))

		body, err := c.request(ctx, "filter_media", http.MethodGet, "/v1/media", query, nil)
		if err != nil {
			return domain.Page[domain.Media]{}, err
		}
		return decodePage[domain.Media](body)
	})
}

// Series returns a numbered series with its episodes
func (c *Client) Series(ctx context.Context, id string) (*domain.Series, error) {
	return cache.Do(c.cache, "series", []any{id}, func() (*domain.Series, error) {
		body, err := c.request(ctx, "series", http.MethodGet, "/v2/series/"+url.PathEscape(id), nil, nil)
		if err != nil {
			return nil, err
		}
		s, err := decodeData[domain.Series](body)
		if err != nil {
			return nil, err
		}
		return &s, nil
	})
}

// Collection returns a collection with its media
func (c *Client) Collection(ctx context.Context, id string, flattened bool) (*domain.Collection, error) {
	return cache.Do(c.cache, "collection", []any{id, flattened}, func() (*domain.Collection, error) {
		query := url.Values{}
		query.Set("flattened", strconv.FormatBool(flattened))

		body, err := c.request(ctx, "collection", http.MethodGet, "/v2/collections/"+url.PathEscape(id), query, nil)
		if err != nil {
			return nil, err
		}
		col, err := decodeData[domain.Collection](body)
		if err != nil {
			return nil, err
		}
		return &col, nil
	})
}

// Collections returns one page of collections
func (c *Client) Collections(ctx context.Context, flattened, excludeMedia bool, page int) (domain.Page[domain.Collection], error) {
	args := []any{flattened, excludeMedia, page}
	return cache.Do(c.cache, "collections", args, func() (domain.Page[domain.Collection], error) {
		query := url.Values{}
		query.Set("flattened", strconv.FormatBool(flattened))
		query.Set("excludeMedia", strconv.FormatBool(excludeMedia))
		query.Set("limit", strconv.Itoa(pageLimit))
		query.Set("page", strconv.Itoa(page))

		body, err := c.request(ctx, "collections", http.MethodGet, "/v2/collections", query, nil)
		if err != nil {
			return domain.Page[domain.Collection]{}, err
		}
		return decodePage[domain.Collection](body)
	})
}

// Section returns a featured section
func (c *Client) Section(ctx context.Context, id string, page int) (*domain.Section, error) {
	return cache.Do(c.cache, "section", []any{id, page}, func() (*domain.Section, error) {
		query := url.Values{}
		query.Set("media_limit", strconv.Itoa(sectionLimit))
		query.Set("page", strconv.Itoa(page))

		body, err := c.request(ctx, "section", http.MethodGet, "/v1/sections/"+url.PathEscape(id)+"/mobile", query, nil)
		if err != nil {
			return nil, err
		}

		var env sectionEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if env.Data == nil {
			return nil, fmt.Errorf("%w: missing data", domain.ErrMalformedResponse)
		}
		section := *env.Data
		if section.Paginator == (domain.Paginator{}) {
			section.Paginator = env.Paginator
		}
		return &section, nil
	})
}

// FetchCaption downloads a caption file. Caption URLs are absolute CDN
// links: the request carries no auth header and no API error checks apply.
func (c *Client) FetchCaption(ctx context.Context, rawURL string) ([]byte, error) {
	c.mu.RLock()
	httpClient := c.session.httpClient
	c.mu.RUnlock()

	metrics.GetOrCreateCounter(`curio_api_requests_total{endpoint="caption"}`).Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// PlaybackURL returns the master playlist of the first encoding
func PlaybackURL(m *domain.Media) (string, error) {
	if m == nil || len(m.Encodings) == 0 {
		return "", fmt.Errorf("%w: no encodings", domain.ErrMalformedResponse)
	}
	u := m.Encodings[0].MasterPlaylistURL
	if u == "" {
		return "", fmt.Errorf("%w: no master playlist url", domain.ErrMalformedResponse)
	}
	return u, nil
}
