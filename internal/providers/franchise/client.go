package franchise

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers"
)

// Config controls how the client reaches the franchise game API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the franchise game API: campaign reads, the simulation engine
// and the league news feed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	now        func() time.Time
}

var _ providers.Client = (*Client)(nil)

// NewClient constructs a franchise client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
	}
}

// FetchBracket returns providers.ErrNotFound when the campaign has no bracket yet.
func (c *Client) FetchBracket(ctx context.Context, campaignID string) (*playoffs.Bracket, error) {
	var payload envelope[bracketResponse]
	if err := c.do(ctx, http.MethodGet, campaignPath(campaignID, "playoffs/bracket"), nil, nil, &payload); err != nil {
		return nil, err
	}
	return mapBracket(campaignID, payload.Data), nil
}

func (c *Client) FetchGames(ctx context.Context, campaignID string, opts providers.FetchOptions) ([]games.Game, error) {
	var payload envelope[[]gameResponse]
	if err := c.do(ctx, http.MethodGet, campaignPath(campaignID, "games"), forceQuery(opts), nil, &payload); err != nil {
		return nil, err
	}
	return mapGames(payload.Data), nil
}

func (c *Client) FetchRoster(ctx context.Context, campaignID string, opts providers.FetchOptions) (players.Roster, error) {
	var payload envelope[rosterResponse]
	if err := c.do(ctx, http.MethodGet, campaignPath(campaignID, "roster"), forceQuery(opts), nil, &payload); err != nil {
		return players.Roster{}, err
	}
	return mapRoster(payload.Data), nil
}

func (c *Client) FetchStandings(ctx context.Context, campaignID string, opts providers.FetchOptions) (playoffs.Standings, error) {
	var payload envelope[[]standingsRowResponse]
	if err := c.do(ctx, http.MethodGet, campaignPath(campaignID, "standings"), forceQuery(opts), nil, &payload); err != nil {
		return playoffs.Standings{}, err
	}
	return mapStandings(payload.Data), nil
}

func (c *Client) FetchCampaign(ctx context.Context, campaignID string) (playoffs.Campaign, error) {
	var payload envelope[campaignResponse]
	if err := c.do(ctx, http.MethodGet, campaignPath(campaignID, ""), nil, nil, &payload); err != nil {
		return playoffs.Campaign{}, err
	}
	return mapCampaign(payload.Data), nil
}

// SimulateNextGame advances the campaign by one game day.
func (c *Client) SimulateNextGame(ctx context.Context, campaignID string) (playoffs.NextGameResult, error) {
	var payload envelope[nextGameResponse]
	if err := c.do(ctx, http.MethodPost, campaignPath(campaignID, "simulate/next-game"), nil, struct{}{}, &payload); err != nil {
		return playoffs.NextGameResult{}, err
	}
	return mapNextGame(payload.Data), nil
}

// SimulateToNextRound runs AI games until the round ends or the user's game is due.
// SimAll keeps going through the finals in the same request.
func (c *Client) SimulateToNextRound(ctx context.Context, campaignID string, opts providers.RoundOptions) error {
	return c.do(ctx, http.MethodPost, campaignPath(campaignID, "simulate/next-round"), nil, nextRoundRequest{SimAll: opts.SimAll}, nil)
}

// AnnounceChampion posts the champion event to the league news feed.
func (c *Client) AnnounceChampion(ctx context.Context, event playoffs.ChampionEvent, campaignID string) error {
	body := championRequest{
		CampaignID: campaignID,
		EventID:    event.ID,
		SeriesID:   event.SeriesID,
		TeamID:     event.TeamID,
		TeamName:   event.TeamName,
		Date:       event.Date,
		Season:     event.Season,
	}
	return c.do(ctx, http.MethodPost, campaignPath(campaignID, "news/champion"), nil, body, nil)
}

func campaignPath(campaignID, suffix string) string {
	p := "/campaigns/" + url.PathEscape(campaignID)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func forceQuery(opts providers.FetchOptions) url.Values {
	if !opts.Force {
		return nil
	}
	return url.Values{"force": []string{"true"}}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", providerName, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, path); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty response from %s", providerName, path)
		}
		return fmt.Errorf("%s: decode %s: %w", providerName, path, err)
	}
	return nil
}

func (c *Client) checkStatus(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(raw))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %s: %w", providerName, path, providers.ErrNotFound)
	case http.StatusTooManyRequests:
		return &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Message:    msg,
		}
	default:
		return &providers.StatusError{Provider: providerName, StatusCode: resp.StatusCode, Body: msg}
	}
}
