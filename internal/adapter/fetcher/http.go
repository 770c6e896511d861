package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"campaign-earnings/internal/core/port"
)

// HTTPFetcher asks an upstream view-count service for the current count of
// a content URL:
//
//	GET <endpoint>?url=<content url>  ->  {"view_count": 1234}
type HTTPFetcher struct {
	client   *http.Client
	endpoint string
	token    string
}

func NewHTTPFetcher(client *http.Client, endpoint, token string) *HTTPFetcher {
	return &HTTPFetcher{client: client, endpoint: endpoint, token: token}
}

type viewCountResponse struct {
	ViewCount *int64 `json:"view_count"`
}

// Fetch implements port.ViewFetcher. Every failure, including a malformed
// body, is reported as ErrUpstreamUnavailable.
func (f *HTTPFetcher) Fetch(ctx context.Context, contentURL string) (int64, error) {
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return 0, fmt.Errorf("%w: bad endpoint: %v", port.ErrUpstreamUnavailable, err)
	}
	q := u.Query()
	q.Set("url", contentURL)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", port.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", port.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: upstream status %d", port.ErrUpstreamUnavailable, resp.StatusCode)
	}
	var body viewCountResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", port.ErrUpstreamUnavailable, err)
	}
	if body.ViewCount == nil || *body.ViewCount < 0 {
		return 0, fmt.Errorf("%w: missing or negative view_count", port.ErrUpstreamUnavailable)
	}
	return *body.ViewCount, nil
}
