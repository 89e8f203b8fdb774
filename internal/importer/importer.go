// Package importer turns recipe web pages into recipe drafts.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/nomnom/internal/domain"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "nomnom/1.0 (+recipe import)"
	maxPageBytes     = 8 << 20
)

// HTTPImporter implements domain.RecipeImporter over HTTP
type HTTPImporter struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
}

// Option configures an HTTPImporter
type Option func(*HTTPImporter)

// WithHTTPClient overrides the HTTP client. The client itself is not modified.
func WithHTTPClient(c *http.Client) Option {
	return func(i *HTTPImporter) { i.httpClient = c }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(i *HTTPImporter) { i.timeout = d }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(i *HTTPImporter) {
		if ua != "" {
			i.userAgent = ua
		}
	}
}

// New creates an importer
func New(logger *slog.Logger, opts ...Option) *HTTPImporter {
	if logger == nil {
		logger = slog.Default()
	}
	i := &HTTPImporter{
		userAgent: defaultUserAgent,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(i)
	}

	// Work on a copy so a caller's client keeps its own timeout
	var client http.Client
	if i.httpClient != nil {
		client = *i.httpClient
	} else {
		client.Timeout = defaultTimeout
	}
	if i.timeout > 0 {
		client.Timeout = i.timeout
	}
	i.httpClient = &client
	return i
}

// LoadData fetches url and extracts a recipe draft from it
func (i *HTTPImporter) LoadData(ctx context.Context, url string) (domain.RecipeDraft, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.RecipeDraft{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", i.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return domain.RecipeDraft{}, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.RecipeDraft{}, fmt.Errorf("failed to fetch page: status %d", resp.StatusCode)
	}

	draft, err := Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return domain.RecipeDraft{}, fmt.Errorf("parse %s: %w", url, err)
	}

	draft.ImageURL = resolveURL(resp.Request.URL.String(), draft.ImageURL)
	i.logger.Debug("imported recipe page",
		"url", url,
		"title", draft.Title,
		"ingredients", len(draft.Ingredients),
		"steps", len(draft.Steps),
		"hasImage", draft.ImageURL != "",
	)
	return draft, nil
}

// normalizeLines trims each line and drops empties
func normalizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
