// internal/provider/client.go
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tamzrod/rosterwatch/internal/status"
)

// ErrMalformed marks a response whose shape is not what we expect.
// The poller treats it like any other per-group failure.
var ErrMalformed = errors.New("provider: malformed payload")

// member is the wire form of one entity. Pointers detect missing fields.
type member struct {
	ID          *string `json:"id"`
	Name        string  `json:"name"`
	State       *string `json:"state"`
	Description *string `json:"description"`
	Until       *int64  `json:"until"`
}

type membersResponse struct {
	Group   string    `json:"group"`
	Members *[]member `json:"members"`
}

// Client fetches group rosters from the status provider.
type Client struct {
	base   string
	apiKey string
	h      *http.Client
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("provider: base url required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		base:   cfg.BaseURL,
		apiKey: cfg.APIKey,
		h:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// FetchGroup calls GET /v1/groups/{group}/members and returns one record per
// member. Any member missing id, state, description or until fails the
// whole group with ErrMalformed.
func (c *Client) FetchGroup(ctx context.Context, group string) ([]status.Record, error) {
	u := c.base + "/v1/groups/" + url.PathEscape(group) + "/members"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider: group %s: %w", group, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("provider: group %s returned %d: %s", group, resp.StatusCode, string(b))
	}

	var payload membersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: group %s: %v", ErrMalformed, group, err)
	}
	return decodeMembers(group, payload)
}

func decodeMembers(group string, payload membersResponse) ([]status.Record, error) {
	if payload.Members == nil {
		return nil, fmt.Errorf("%w: group %s: response without members", ErrMalformed, group)
	}

	out := make([]status.Record, 0, len(*payload.Members))
	for i, m := range *payload.Members {
		switch {
		case m.ID == nil || *m.ID == "":
			return nil, fmt.Errorf("%w: group %s: member %d: missing id", ErrMalformed, group, i)
		case m.State == nil:
			return nil, fmt.Errorf("%w: group %s: member %s: missing state", ErrMalformed, group, *m.ID)
		case m.Description == nil:
			return nil, fmt.Errorf("%w: group %s: member %s: missing description", ErrMalformed, group, *m.ID)
		case m.Until == nil:
			return nil, fmt.Errorf("%w: group %s: member %s: missing until", ErrMalformed, group, *m.ID)
		}
		out = append(out, status.Record{
			ID:          *m.ID,
			Name:        m.Name,
			State:       *m.State,
			Description: *m.Description,
			Until:       *m.Until,
		})
	}
	return out, nil
}
