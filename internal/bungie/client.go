package bungie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"echo/internal/identity"
	"echo/internal/logging"
)

const (
	defaultBaseURL     = "https://www.bungie.net/Platform"
	defaultUserAgent   = "echo"
	defaultHTTPTimeout = 10 * time.Second

	maxResponseBytes = 4 << 20
)

// ErrInvalidIdentifier rejects resolution attempts with a malformed id.
var ErrInvalidIdentifier = errors.New("invalid bungie id")

// StatusError reports a non-200 platform API response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bungie api: http %d: %s", e.Code, strings.TrimSpace(e.Body))
}

// Member is the canonical resolved platform account: the record the report
// launcher consumes.
type Member struct {
	MembershipID string
	PlatformID   int
}

// ProfileCard is one platform account returned by a player search. A player
// with linked accounts yields one card per platform.
type ProfileCard struct {
	MembershipID      string `json:"membershipId"`
	MembershipType    int    `json:"membershipType"`
	CrossSaveOverride int    `json:"crossSaveOverride"`
}

// LinkedProfile is one entry from the linked-profiles endpoint.
type LinkedProfile struct {
	MembershipID   string    `json:"membershipId"`
	MembershipType int       `json:"membershipType"`
	DateLastPlayed time.Time `json:"dateLastPlayed"`
}

// Client provides read access to the Destiny platform API.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
	memo       *ProfileMemo
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at a different API host. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = baseURL
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if strings.TrimSpace(userAgent) != "" {
			c.userAgent = userAgent
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "bungie")
		}
	}
}

// WithProfileMemo attaches an optional memo that keeps the freshest profile
// snapshot across calls. Nil disables memoization.
func WithProfileMemo(memo *ProfileMemo) Option {
	return func(c *Client) {
		c.memo = memo
	}
}

// New creates a platform API client.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("bungie api key required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.baseURL = strings.TrimRight(client.baseURL, "/")
	return client, nil
}

// SearchPlayer looks up the profile cards matching an exact name+code pair.
// Zero cards means the identifier resolved to nobody.
func (c *Client) SearchPlayer(ctx context.Context, id identity.BungieID) ([]ProfileCard, error) {
	payload := struct {
		DisplayName     string `json:"displayName"`
		DisplayNameCode string `json:"displayNameCode"`
	}{DisplayName: id.Name, DisplayNameCode: id.Code}

	var cards []ProfileCard
	if err := c.post(ctx, "/Destiny2/SearchDestinyPlayerByBungieName/-1/", payload, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// LinkedProfiles fetches every profile linked to a membership, with
// last-played timestamps.
func (c *Client) LinkedProfiles(ctx context.Context, membershipType int, membershipID string) ([]LinkedProfile, error) {
	path := fmt.Sprintf("/Destiny2/%d/Profile/%s/LinkedProfiles/", membershipType, url.PathEscape(membershipID))
	var payload struct {
		Profiles []LinkedProfile `json:"profiles"`
	}
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload.Profiles, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), out)
}

// do issues one request and unwraps the platform's {"Response": ...}
// envelope into out.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("bungie request", slog.String("method", method), slog.String("path", path))

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	var wrapper struct {
		Response    json.RawMessage `json:"Response"`
		ErrorStatus string          `json:"ErrorStatus"`
		Message     string          `json:"Message"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("decode bungie response: %w", err)
	}
	if out == nil || len(wrapper.Response) == 0 || string(wrapper.Response) == "null" {
		return nil
	}
	if err := json.Unmarshal(wrapper.Response, out); err != nil {
		return fmt.Errorf("decode bungie response payload: %w", err)
	}
	return nil
}
