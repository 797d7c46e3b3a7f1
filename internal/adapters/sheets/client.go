// Package sheets reads and writes the faction workbook. Row parsing is
// deliberately forgiving: a malformed cell coerces to its zero value and
// the rest of the batch still completes.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/factionops/scopebot/pkg/metrics"
)

const defaultTimeout = 15 * time.Second

// RowSource supplies the raw rows of one workbook tab, header included.
type RowSource interface {
	Rows(ctx context.Context, tab string) ([][]string, error)
}

// CellWriter updates a single cell of one workbook tab.
type CellWriter interface {
	Update(ctx context.Context, tab, cell, value string) error
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the spreadsheet API base URL, used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpc = hc
		}
	}
}

// Client talks to the spreadsheet values API. It implements RowSource and
// CellWriter.
type Client struct {
	baseURL       string
	apiKey        string
	spreadsheetID string
	httpc         *http.Client
}

// New creates a Client for one workbook.
func New(apiKey, spreadsheetID string, opts ...Option) *Client {
	c := &Client{
		baseURL:       "https://sheets.googleapis.com",
		apiKey:        apiKey,
		spreadsheetID: spreadsheetID,
		httpc:         &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// valueRange mirrors the values API payload for reads and writes.
type valueRange struct {
	Values [][]string `json:"values"`
}

// Rows fetches all rows of a tab. Short rows come back short; callers pad
// or skip as their column map requires.
func (c *Client) Rows(ctx context.Context, tab string) (rows [][]string, err error) {
	defer func() { metrics.RecordSheetFetch(tab, err) }()

	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?key=%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(tab), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d for tab %q", ErrFetch, resp.StatusCode, tab)
	}
	var vr valueRange
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return vr.Values, nil
}

// Update writes one cell, e.g. Update(ctx, "Delinquents", "H3", "Yes").
func (c *Client) Update(ctx context.Context, tab, cell, value string) error {
	body, err := json.Marshal(valueRange{Values: [][]string{{value}}})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpdate, err)
	}
	rangeRef := fmt.Sprintf("%s!%s", tab, cell)
	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=RAW&key=%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(rangeRef), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpdate, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpdate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d for %s", ErrUpdate, resp.StatusCode, rangeRef)
	}
	return nil
}
