package sports

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Aggregator turns raw gateway calls into the views the app shows:
// hydrated league lists, match days, results and squads.
type Aggregator struct {
	gw          Gateway
	majorSports []string
	cap         int
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

func NewAggregator(gw Gateway, cfg Config, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.HydrationConcurrency
	if concurrency <= 0 {
		concurrency = max(cfg.LeagueCandidateCap, 1)
	}
	return &Aggregator{
		gw:          gw,
		majorSports: cfg.MajorSports,
		cap:         cfg.LeagueCandidateCap,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// Today returns the local calendar date used to split today's matches from upcoming ones.
func (a *Aggregator) Today() string {
	return a.now().Format("2006-01-02")
}

// LoadCountries returns every country sorted case-insensitively by name.
func (a *Aggregator) LoadCountries(ctx context.Context) ([]Country, error) {
	countries, err := a.gw.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load countries: %w", err)
	}
	slices.SortStableFunc(countries, func(x, y Country) int {
		return strings.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name))
	})
	return countries, nil
}

// FilterMajorSports keeps leagues whose sport is in the allow-list, in input
// order, and stops after limit entries. A limit of zero or less keeps nothing.
func FilterMajorSports(leagues []League, allowed []string, limit int) []League {
	if limit <= 0 {
		return []League{}
	}
	out := make([]League, 0, min(len(leagues), limit))
	for _, l := range leagues {
		if len(out) == limit {
			break
		}
		if slices.Contains(allowed, l.Sport) {
			out = append(out, l)
		}
	}
	return out
}

// LeagueCandidates searches a country's leagues and keeps the major-sport ones.
func (a *Aggregator) LeagueCandidates(ctx context.Context, country string) ([]League, error) {
	leagues, err := a.gw.SearchLeagues(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("failed to search leagues for %s: %w", country, err)
	}
	return FilterMajorSports(leagues, a.majorSports, a.cap), nil
}

// HydrateLeague looks up the full record of a candidate. The candidate's id
// is kept, and its name and sport fill any gaps in the hydrated record.
func (a *Aggregator) HydrateLeague(ctx context.Context, candidate League) (League, error) {
	full, err := a.gw.LookupLeague(ctx, candidate.ID)
	if err != nil {
		return League{}, fmt.Errorf("failed to hydrate league %s: %w", candidate.ID, err)
	}
	full.ID = candidate.ID
	if full.Name == "" {
		full.Name = candidate.Name
	}
	if full.Sport == "" {
		full.Sport = candidate.Sport
	}
	return full, nil
}

// LoadLeaguesForCountry returns the hydrated major-sport leagues of a country.
// A failed search is an error; a failed hydration only drops that league.
func (a *Aggregator) LoadLeaguesForCountry(ctx context.Context, country string) ([]League, error) {
	candidates, err := a.LeagueCandidates(ctx, country)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []League{}, nil
	}
	return a.hydrateAll(ctx, candidates)
}

// LoadFavoriteLeagues hydrates the favorite ids in order, each marked as a
// favorite. Ids whose lookup fails are left out.
func (a *Aggregator) LoadFavoriteLeagues(ctx context.Context, ids []string) ([]League, error) {
	if len(ids) == 0 {
		return []League{}, nil
	}
	candidates := make([]League, len(ids))
	for i, id := range ids {
		candidates[i] = League{ID: id}
	}
	leagues, err := a.hydrateAll(ctx, candidates)
	if err != nil {
		return nil, err
	}
	return MarkFavorites(leagues, func(string) bool { return true }), nil
}

// hydrateAll looks up candidates with bounded concurrency and keeps the
// successful ones in candidate order.
func (a *Aggregator) hydrateAll(ctx context.Context, candidates []League) ([]League, error) {
	hydrated := make([]*League, len(candidates))
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			league, err := a.HydrateLeague(ctx, candidate)
			if err != nil {
				a.logger.Warn("Dropping league after failed hydration", "leagueID", candidate.ID, "error", err)
				MetricHydrationDropped.Inc()
				return nil
			}
			hydrated[i] = &league
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return compactLeagues(hydrated), nil
}

func compactLeagues(hydrated []*League) []League {
	leagues := make([]League, 0, len(hydrated))
	for _, l := range hydrated {
		if l != nil {
			leagues = append(leagues, *l)
		}
	}
	return leagues
}

// PartitionMatches splits matches into those dated today and the rest.
// Dates are compared as plain strings with no timezone conversion.
func PartitionMatches(matches []Match, today string) MatchDay {
	day := MatchDay{Today: []Match{}, Upcoming: []Match{}}
	for _, m := range matches {
		if m.Date == today {
			day.Today = append(day.Today, m)
		} else {
			day.Upcoming = append(day.Upcoming, m)
		}
	}
	return day
}

// LoadMatchesForLeague returns the next fixtures of a league split by day.
// Failures are logged and yield an empty match day.
func (a *Aggregator) LoadMatchesForLeague(ctx context.Context, leagueID string) MatchDay {
	matches, err := a.gw.NextEvents(ctx, leagueID)
	if err != nil {
		a.logger.Error("Failed to load matches", "leagueID", leagueID, "error", err)
		return PartitionMatches(nil, a.Today())
	}
	return PartitionMatches(matches, a.Today())
}

// LoadResults returns the most recent results of a league with their outcome.
func (a *Aggregator) LoadResults(ctx context.Context, leagueID string) ([]Result, error) {
	matches, err := a.gw.PastEvents(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for league %s: %w", leagueID, err)
	}
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, Result{Match: m, Outcome: m.Outcome()})
	}
	return results, nil
}

func (a *Aggregator) LoadTeams(ctx context.Context, leagueName string) ([]Team, error) {
	teams, err := a.gw.SearchTeams(ctx, leagueName)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for %s: %w", leagueName, err)
	}
	return teams, nil
}

// LoadSquad fetches a team's players and groups them by position.
func (a *Aggregator) LoadSquad(ctx context.Context, teamID string) (Squad, error) {
	players, err := a.gw.ListPlayers(ctx, teamID)
	if err != nil {
		return Squad{}, fmt.Errorf("failed to load squad for team %s: %w", teamID, err)
	}
	return newSquad(teamID, players), nil
}

// MarkFavorites returns a copy of leagues with the favorite flag set from isFavorite.
func MarkFavorites(leagues []League, isFavorite func(id string) bool) []League {
	out := make([]League, len(leagues))
	for i, l := range leagues {
		l.Favorite = isFavorite(l.ID)
		out[i] = l
	}
	return out
}
