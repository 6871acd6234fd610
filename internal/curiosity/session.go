package curiosity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Curio/1.0"
)

// Session is one HTTP session against the API: base URL, default
// headers and, once authenticated, the Authorization header.
// A Session is never downgraded in place; logging out builds a new one.
type Session struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
}

func newSession(baseURL string, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	headers := http.Header{}
	headers.Set("User-Agent", userAgent)
	headers.Set("Accept", "application/json")

	return &Session{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// authenticate attaches the persisted auth token to every request
func (s *Session) authenticate(token string) {
	s.headers.Set("Authorization", token)
}

func (s *Session) authenticated() bool {
	return s.headers.Get("Authorization") != ""
}

// do performs a request and returns the status code and full body
func (s *Session) do(ctx context.Context, method, path string, query url.Values, payload any) (int, []byte, error) {
	reqURL := s.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range s.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
