package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// upstreamClient forwards calls to an external HTTP service (the
// profile/prediction backend or the schemes catalogue) without reshaping
// either side.
type upstreamClient struct {
	base   string
	client *http.Client
}

func newUpstreamClient(base string) *upstreamClient {
	if base == "" {
		return nil
	}
	return &upstreamClient{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 25 * time.Second},
	}
}

// upstreamResponse is a collaborator's reply, kept verbatim.
type upstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// upstreamError is a non-2xx upstreamResponse.
type upstreamError upstreamResponse

func (e *upstreamError) Error() string {
	return fmt.Sprintf("upstream non-2xx: %d, body: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// do calls {base}{path}?{query} with body as JSON. Transport failures are
// returned as errors; non-2xx replies as *upstreamError.
func (u *upstreamClient) do(ctx context.Context, method, path string, query url.Values, body []byte) (*upstreamResponse, error) {
	target := u.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream call failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	out := &upstreamResponse{StatusCode: resp.StatusCode, ContentType: resp.Header.Get("Content-Type"), Body: data}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, (*upstreamError)(out)
	}
	return out, nil
}
