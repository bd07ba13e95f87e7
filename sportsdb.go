package sports

import (
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
)

// ErrNotFound is returned when the gateway answers successfully but the
// requested entity is absent.
var ErrNotFound = errors.New("not found")

// Gateway is the read-only sports statistics API the aggregation layer consumes.
// Empty collections are valid results, never errors.
type Gateway interface {
	ListCountries(ctx context.Context) ([]Country, error)
	SearchLeagues(ctx context.Context, country string) ([]League, error)
	LookupLeague(ctx context.Context, leagueID string) (League, error)
	AllLeagues(ctx context.Context) ([]LeagueName, error)
	SearchTeams(ctx context.Context, leagueName string) ([]Team, error)
	ListPlayers(ctx context.Context, teamID string) ([]Player, error)
	NextEvents(ctx context.Context, leagueID string) ([]Match, error)
	PastEvents(ctx context.Context, leagueID string) ([]Match, error)
	EventsOnDay(ctx context.Context, date, sport string) ([]Match, error)
}

// LeagueName is one entry of the full league directory, used to build the
// name-to-id cache.
type LeagueName struct {
	ID         string
	Name       string
	Alternates []string
}

// SportsDBClient talks to TheSportsDB v1 JSON API.
type SportsDBClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSportsDBClient creates a client for the given base URL
// (DefaultSportsDBBaseURL when empty).
func NewSportsDBClient(baseURL string, timeout time.Duration, logger *slog.Logger) *SportsDBClient {
	if baseURL == "" {
		baseURL = DefaultSportsDBBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SportsDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ListCountries fetches every country known to the gateway.
// GET /all_countries.php
func (c *SportsDBClient) ListCountries(ctx context.Context) ([]Country, error) {
	var resp countriesResponse
	if err := c.get(ctx, "all_countries.php", nil, &resp); err != nil {
		return nil, err
	}
	return normalizeCountries(resp.Countries), nil
}

// SearchLeagues returns the lightweight league list for a country.
// GET /search_all_leagues.php?c=England
func (c *SportsDBClient) SearchLeagues(ctx context.Context, country string) ([]League, error) {
	var resp countryLeaguesResponse
	if err := c.get(ctx, "search_all_leagues.php", url.Values{"c": {country}}, &resp); err != nil {
		return nil, err
	}
	raw := resp.Countries
	if len(raw) == 0 {
		raw = resp.Countrys
	}
	leagues := make([]League, 0, len(raw))
	for _, r := range raw {
		if l, ok := normalizeLeague(r, false); ok {
			leagues = append(leagues, l)
		}
	}
	return leagues, nil
}

// LookupLeague hydrates a single league with its images.
// GET /lookupleague.php?id=4328
func (c *SportsDBClient) LookupLeague(ctx context.Context, leagueID string) (League, error) {
	var resp leaguesResponse
	if err := c.get(ctx, "lookupleague.php", url.Values{"id": {leagueID}}, &resp); err != nil {
		return League{}, err
	}
	for _, r := range resp.Leagues {
		if l, ok := normalizeLeague(r, true); ok {
			return l, nil
		}
	}
	return League{}, fmt.Errorf("league %s: %w", leagueID, ErrNotFound)
}

// AllLeagues fetches the full league directory.
// GET /all_leagues.php
func (c *SportsDBClient) AllLeagues(ctx context.Context) ([]LeagueName, error) {
	var resp leaguesResponse
	if err := c.get(ctx, "all_leagues.php", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]LeagueName, 0, len(resp.Leagues))
	for _, r := range resp.Leagues {
		if n, ok := normalizeLeagueName(r); ok {
			names = append(names, n)
		}
	}
	return names, nil
}

// SearchTeams returns the teams of a league, looked up by display name.
// GET /search_all_teams.php?l=English%20Premier%20League
func (c *SportsDBClient) SearchTeams(ctx context.Context, leagueName string) ([]Team, error) {
	var resp teamsResponse
	if err := c.get(ctx, "search_all_teams.php", url.Values{"l": {leagueName}}, &resp); err != nil {
		return nil, err
	}
	teams := make([]Team, 0, len(resp.Teams))
	for _, r := range resp.Teams {
		if t, ok := normalizeTeam(r); ok {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

// ListPlayers returns the squad of a team.
// GET /lookup_all_players.php?id=133604
func (c *SportsDBClient) ListPlayers(ctx context.Context, teamID string) ([]Player, error) {
	var resp playersResponse
	if err := c.get(ctx, "lookup_all_players.php", url.Values{"id": {teamID}}, &resp); err != nil {
		return nil, err
	}
	players := make([]Player, 0, len(resp.Player))
	for _, r := range resp.Player {
		if p, ok := normalizePlayer(r); ok {
			players = append(players, p)
		}
	}
	return players, nil
}

// NextEvents returns the next scheduled events of a league.
// GET /eventsnextleague.php?id=4328
func (c *SportsDBClient) NextEvents(ctx context.Context, leagueID string) ([]Match, error) {
	return c.events(ctx, "eventsnextleague.php", url.Values{"id": {leagueID}})
}

// PastEvents returns the most recent results of a league.
// GET /eventspastleague.php?id=4328
func (c *SportsDBClient) PastEvents(ctx context.Context, leagueID string) ([]Match, error) {
	return c.events(ctx, "eventspastleague.php", url.Values{"id": {leagueID}})
}

// EventsOnDay returns every event on a date (YYYY-MM-DD) for one sport.
// GET /eventsday.php?d=2026-10-17&s=Soccer
func (c *SportsDBClient) EventsOnDay(ctx context.Context, date, sport string) ([]Match, error) {
	q := url.Values{"d": {date}}
	if sport != "" {
		q.Set("s", sport)
	}
	return c.events(ctx, "eventsday.php", q)
}

func (c *SportsDBClient) events(ctx context.Context, endpoint string, q url.Values) ([]Match, error) {
	var resp eventsResponse
	if err := c.get(ctx, endpoint, q, &resp); err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(resp.Events))
	for _, r := range resp.Events {
		if m, ok := normalizeEvent(r); ok {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func (c *SportsDBClient) get(ctx context.Context, endpoint string, q url.Values, out any) (err error) {
	defer func() { observeGatewayRequest(endpoint, err) }()

	u := c.baseURL + "/" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sports gateway error: endpoint=%s status=%d body=%s", endpoint, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	// The gateway answers some empty searches with an empty body.
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
	}
	c.logger.Debug("sports gateway request", "endpoint", endpoint)
	return nil
}
