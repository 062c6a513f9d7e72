package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpUserAgent = "ChessLeagueTracker/1.0"

type httpSource struct {
	client  *http.Client
	baseURL string
}

// NewHTTPSource builds a DocumentSource reading pipeline documents from a
// plain HTTP(S) base URL, for deployments that serve the JSON statically.
func NewHTTPSource(baseURL string) (DocumentSource, error) {
	if baseURL == "" {
		return nil, errors.New("http source base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid http source base URL %q: %w", baseURL, err)
	}

	return &httpSource{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *httpSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	requestURL := s.baseURL + "/" + strings.TrimPrefix(key, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", requestURL, err)
	}
	req.Header.Set("User-Agent", httpUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", requestURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, requestURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", requestURL, err)
	}

	return body, nil
}
