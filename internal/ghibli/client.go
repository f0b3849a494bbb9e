package ghibli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kalambet/filmdeck/internal/film"
)

// DefaultURL is the public Studio Ghibli films endpoint.
const DefaultURL = "https://ghibliapi.vercel.app/films"

// StatusError reports a response whose status is outside the 2xx range.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Client fetches the films collection over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

// New creates a Client for the given films URL. A zero timeout leaves
// requests unbounded.
func New(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL returns the endpoint the client reads from.
func (c *Client) URL() string {
	return c.url
}

// ListFilms performs a single GET against the films endpoint. It never retries.
func (c *Client) ListFilms(ctx context.Context) ([]film.Film, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting films: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var films []film.Film
	if err := json.NewDecoder(resp.Body).Decode(&films); err != nil {
		return nil, fmt.Errorf("decoding films: %w", err)
	}
	if films == nil {
		films = []film.Film{}
	}
	return films, nil
}

// Fetch makes Client usable as a listfetch source.
func (c *Client) Fetch(ctx context.Context) ([]film.Film, error) {
	return c.ListFilms(ctx)
}

// Ping reports whether the endpoint answers with a 2xx status within two seconds.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("source unreachable: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
