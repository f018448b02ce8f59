package browse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventsdiscovery/internal/app/upgrade"
	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
)

// Client talks to a remote events API with a bearer token. It implements
// both Fetcher and Upgrader.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) FetchEvents(ctx context.Context, tier tiers.Tier, fs FilterState) ([]events.Event, error) {
	q := url.Values{}
	q.Set("tier", tier.String())
	if fs.Tab != "" {
		q.Set("tab", string(fs.Tab))
	}
	if s := strings.TrimSpace(fs.Search); s != "" {
		q.Set("search", s)
	}
	if fs.From != nil {
		q.Set("from", fs.From.UTC().Format(time.RFC3339Nano))
	}
	if fs.To != nil {
		q.Set("to", fs.To.UTC().Format(time.RFC3339Nano))
	}
	if fs.VenueID != "" {
		q.Set("venue_id", fs.VenueID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/events?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var list []events.Event
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []events.Event{}
	}
	return list, nil
}

type meResponse struct {
	User users.User `json:"user"`
}

// CurrentUser asks the server who the token belongs to and at what tier.
func (c *Client) CurrentUser(ctx context.Context) (users.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/me", nil)
	if err != nil {
		return users.User{}, err
	}

	var me meResponse
	if err := c.do(req, &me); err != nil {
		return users.User{}, err
	}
	me.User.Tier = me.User.EffectiveTier()
	return me.User, nil
}

type upgradeRequest struct {
	ID   string     `json:"id"`
	Tier tiers.Tier `json:"tier"`
}

type upgradeResponse struct {
	Tier     tiers.Tier `json:"tier"`
	Previous tiers.Tier `json:"previous"`
	Upgraded bool       `json:"upgraded"`
}

func (c *Client) UpgradeTier(ctx context.Context, userID string, current, requested tiers.Tier) (upgrade.Result, error) {
	body, err := json.Marshal(upgradeRequest{ID: userID, Tier: requested})
	if err != nil {
		return upgrade.Result{Previous: current, Tier: current}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return upgrade.Result{Previous: current, Tier: current}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp upgradeResponse
	if err := c.do(req, &resp); err != nil {
		return upgrade.Result{Previous: current, Tier: current}, err
	}
	prev := resp.Previous
	if prev == "" {
		prev = current
	}
	return upgrade.Result{Previous: prev, Tier: tiers.Normalize(string(resp.Tier)), Upgraded: resp.Upgraded}, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var ae apiError
		_ = json.NewDecoder(res.Body).Decode(&ae)
		if ae.Error == "" {
			ae.Error = http.StatusText(res.StatusCode)
		}
		return &StatusError{Code: res.StatusCode, Message: ae.Error}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("events api: %d %s", e.Code, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
