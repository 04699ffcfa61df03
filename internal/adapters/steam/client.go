package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/bnema/steamrec/internal/ports"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.steampowered.com"

	friendListPath  = "/ISteamUser/GetFriendList/v0001/"
	ownedGamesPath  = "/IPlayerService/GetOwnedGames/v0001/"
	recentGamesPath = "/IPlayerService/GetRecentlyPlayedGames/v0001/"

	maxResponseBytes  = 32 << 20
	maxErrorBodyBytes = 512
	redacted          = "REDACTED"
)

type Config struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	// RequestsPerSecond caps outgoing requests. Zero disables the limiter.
	RequestsPerSecond float64
}

// Client talks to the Steam Web API. Every request carries the API key, so
// errors and logs only ever show redacted URLs.
type Client struct {
	baseURL        string
	apiKey         string
	httpClient     *http.Client
	requestTimeout time.Duration
	limiter        *rate.Limiter
	now            func() time.Time
}

var _ ports.GameSource = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: steam api key is required", domain.ErrConfiguration)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := buildAPIURL(baseURL, friendListPath); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		httpClient:     httpClient,
		requestTimeout: cfg.RequestTimeout,
		limiter:        limiter,
		now:            time.Now,
	}, nil
}

type friendListResponse struct {
	FriendsList struct {
		Friends []struct {
			SteamID      string `json:"steamid"`
			Relationship string `json:"relationship"`
			FriendSince  int64  `json:"friend_since"`
		} `json:"friends"`
	} `json:"friendslist"`
}

type gamesResponse struct {
	Response struct {
		Games []struct {
			AppID           int    `json:"appid"`
			Name            string `json:"name"`
			PlaytimeForever int    `json:"playtime_forever"`
			Playtime2Weeks  *int   `json:"playtime_2weeks"`
		} `json:"games"`
	} `json:"response"`
}

func (c *Client) ListFriends(ctx context.Context, steamID domain.SteamID) ([]domain.Peer, error) {
	var payload friendListResponse
	query := url.Values{"steamid": {string(steamID)}, "relationship": {"friend"}}
	if err := c.get(ctx, friendListPath, query, &payload); err != nil {
		return nil, fmt.Errorf("get friend list: %w", err)
	}

	peers := make([]domain.Peer, 0, len(payload.FriendsList.Friends))
	for _, friend := range payload.FriendsList.Friends {
		if friend.SteamID == "" {
			continue
		}
		peer := domain.Peer{SteamID: domain.SteamID(friend.SteamID), Relationship: friend.Relationship}
		if friend.FriendSince > 0 {
			peer.FriendSince = time.Unix(friend.FriendSince, 0).UTC()
		}
		peers = append(peers, peer)
	}

	return peers, nil
}

func (c *Client) OwnedGames(ctx context.Context, steamID domain.SteamID) ([]domain.Game, error) {
	var payload gamesResponse
	query := url.Values{
		"steamid":         {string(steamID)},
		"include_appinfo": {"1"},
		"format":          {"json"},
	}
	if err := c.get(ctx, ownedGamesPath, query, &payload); err != nil {
		return nil, fmt.Errorf("get owned games: %w", err)
	}

	return payload.games(), nil
}

func (c *Client) RecentGames(ctx context.Context, steamID domain.SteamID) ([]domain.Game, error) {
	var payload gamesResponse
	query := url.Values{"steamid": {string(steamID)}, "format": {"json"}}
	if err := c.get(ctx, recentGamesPath, query, &payload); err != nil {
		return nil, fmt.Errorf("get recently played games: %w", err)
	}

	return payload.games(), nil
}

func (r gamesResponse) games() []domain.Game {
	games := make([]domain.Game, 0, len(r.Response.Games))
	for _, game := range r.Response.Games {
		games = append(games, domain.Game{
			AppID:           game.AppID,
			Name:            game.Name,
			PlaytimeForever: game.PlaytimeForever,
			Playtime2Weeks:  game.Playtime2Weeks,
		})
	}
	return games
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	endpoint, err := buildAPIURL(c.baseURL, path)
	if err != nil {
		return err
	}
	query.Set("key", c.apiKey)
	endpoint += "?" + query.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for request slot: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", c.redact(err))
	}
	req.Header.Set("Accept", "application/json")

	logging.Ctx(ctx).Debug().Str("path", path).Str("steam_id", query.Get("steamid")).Msg("steam api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", c.redact(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(resp)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w: %v", domain.ErrMalformedResponse, c.redact(err))
	}

	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	statusErr := &domain.StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.ReplaceAll(strings.TrimSpace(string(body)), c.apiKey, redacted),
	}
	if retryAfter, ok := parseRetryAfter(resp.Header.Get("Retry-After"), c.now()); ok {
		statusErr.RetryAfter = retryAfter
		statusErr.HasRetryAfter = true
	}

	return statusErr
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.requestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

// redact scrubs the API key from URLs carried by transport errors.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(c.apiKey), redacted)
		urlErr.URL = strings.ReplaceAll(urlErr.URL, c.apiKey, redacted)
		return err
	}
	if strings.Contains(err.Error(), c.apiKey) {
		return errors.New(strings.ReplaceAll(err.Error(), c.apiKey, redacted))
	}
	return err
}

func parseRetryAfter(raw string, now time.Time) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	at, err := http.ParseTime(raw)
	if err != nil {
		return 0, false
	}
	if wait := at.Sub(now); wait > 0 {
		return wait, true
	}
	return 0, true
}

func buildAPIURL(baseURL string, path string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(strings.TrimSuffix(parsed.Path, "/") + path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
