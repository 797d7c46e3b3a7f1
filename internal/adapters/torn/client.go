// Package torn is the game API client. Every outbound call is gated by
// the shared rate limiter; a denied call returns ErrRateLimited instead of
// queueing, and the caller skips that attempt.
package torn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/factionops/scopebot/internal/domain/model"
	"github.com/factionops/scopebot/internal/ratelimit"
	"github.com/factionops/scopebot/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, used by tests.
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

// WithLimiter sets the shared rate limiter.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// Client fetches faction state from the game API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	limiter *ratelimit.Limiter
}

// New creates a Client for the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: "https://api.torn.com/v2",
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: defaultTimeout},
		limiter: ratelimit.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FactionSnapshot fetches faction basics, members and crimes in one call
// and folds them into a read-only snapshot for the cycle.
func (c *Client) FactionSnapshot(ctx context.Context) (*model.FactionSnapshot, error) {
	var resp factionResponse
	if err := c.get(ctx, "faction", url.Values{"selections": {"basic,crimes,members"}}, &resp); err != nil {
		return nil, err
	}
	return toSnapshot(&resp), nil
}

// Balances fetches the faction bank standing of every member.
func (c *Client) Balances(ctx context.Context) ([]model.MemberBalance, error) {
	var resp balancesResponse
	if err := c.get(ctx, "faction", url.Values{"selections": {"balance"}}, &resp); err != nil {
		return nil, err
	}
	out := make([]model.MemberBalance, 0, len(resp.Balance.Members))
	for _, b := range resp.Balance.Members {
		out = append(out, model.MemberBalance{
			ID:       strconv.FormatInt(b.ID, 10),
			Username: b.Username,
			Money:    b.Money,
			Points:   b.Points,
		})
	}
	return out, nil
}

// get performs one rate-limited API call and decodes the JSON body.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if !c.limiter.Allow() {
		metrics.RecordAPIRateLimited()
		return ErrRateLimited
	}
	defer metrics.UpdateAPIRemaining(c.limiter.Remaining())

	query.Set("key", c.apiKey)
	u := fmt.Sprintf("%s/%s/?%s", c.baseURL, endpoint, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}

	metrics.RecordAPICall(endpoint)
	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.RecordAPIError(endpoint)
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordAPIError(endpoint)
		return fmt.Errorf("%w: unexpected status %d", ErrRequest, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordAPIError(endpoint)
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// toSnapshot flattens the wire payload. Member slot state is derived from
// the crimes list: a member occupying a slot carries that crime's ready
// timestamp.
func toSnapshot(resp *factionResponse) *model.FactionSnapshot {
	snap := &model.FactionSnapshot{
		Name:  resp.Name,
		Scope: resp.Crimes.Scope,
	}

	inSlot := make(map[string]int64) // member id -> occupied crime's ready_at
	for _, crime := range resp.Crimes.List {
		c := model.Crime{
			Name:  crime.Name,
			Level: crime.Difficulty,
		}
		for _, slot := range crime.Slots {
			s := model.CrimeSlot{
				Position:    slot.Position,
				ReadyAt:     crime.ReadyAt,
				RequiredCPR: slot.RequiredCPR,
			}
			if slot.User != nil {
				s.UserID = strconv.FormatInt(slot.User.ID, 10)
				inSlot[s.UserID] = crime.ReadyAt
			}
			c.Slots = append(c.Slots, s)
		}
		snap.Crimes = append(snap.Crimes, c)
	}

	ids := make([]string, 0, len(resp.Members))
	for id := range resp.Members {
		ids = append(ids, id)
	}
	// Member map order is unspecified; sort so every cycle sees the same
	// scan order during assignment.
	sort.Strings(ids)
	for _, id := range ids {
		m := resp.Members[id]
		readyAt, occupied := inSlot[id]
		snap.Members = append(snap.Members, model.Member{
			ID:         id,
			Name:       m.Name,
			LastAction: m.LastAction.Timestamp,
			InCrime:    occupied,
			ReadyAt:    readyAt,
			HasMission: hasMission(m.CriminalMission),
		})
	}
	return snap
}

func hasMission(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
