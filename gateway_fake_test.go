package sports

import (
	"context"
	"sync"
)

// fakeGateway is an in-memory Gateway. Unset hooks return empty results.
type fakeGateway struct {
	listCountries func(ctx context.Context) ([]Country, error)
	searchLeagues func(ctx context.Context, country string) ([]League, error)
	lookupLeague  func(ctx context.Context, id string) (League, error)
	allLeagues    func(ctx context.Context) ([]LeagueName, error)
	searchTeams   func(ctx context.Context, league string) ([]Team, error)
	listPlayers   func(ctx context.Context, teamID string) ([]Player, error)
	nextEvents    func(ctx context.Context, leagueID string) ([]Match, error)
	pastEvents    func(ctx context.Context, leagueID string) ([]Match, error)
	eventsOnDay   func(ctx context.Context, date, sport string) ([]Match, error)

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeGateway) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeGateway) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeGateway) ListCountries(ctx context.Context) ([]Country, error) {
	f.record("ListCountries")
	if f.listCountries == nil {
		return []Country{}, nil
	}
	return f.listCountries(ctx)
}

func (f *fakeGateway) SearchLeagues(ctx context.Context, country string) ([]League, error) {
	f.record("SearchLeagues")
	if f.searchLeagues == nil {
		return []League{}, nil
	}
	return f.searchLeagues(ctx, country)
}

func (f *fakeGateway) LookupLeague(ctx context.Context, id string) (League, error) {
	f.record("LookupLeague")
	if f.lookupLeague == nil {
		return League{}, ErrNotFound
	}
	return f.lookupLeague(ctx, id)
}

func (f *fakeGateway) AllLeagues(ctx context.Context) ([]LeagueName, error) {
	f.record("AllLeagues")
	if f.allLeagues == nil {
		return []LeagueName{}, nil
	}
	return f.allLeagues(ctx)
}

func (f *fakeGateway) SearchTeams(ctx context.Context, league string) ([]Team, error) {
	f.record("SearchTeams")
	if f.searchTeams == nil {
		return []Team{}, nil
	}
	return f.searchTeams(ctx, league)
}

func (f *fakeGateway) ListPlayers(ctx context.Context, teamID string) ([]Player, error) {
	f.record("ListPlayers")
	if f.listPlayers == nil {
		return []Player{}, nil
	}
	return f.listPlayers(ctx, teamID)
}

func (f *fakeGateway) NextEvents(ctx context.Context, leagueID string) ([]Match, error) {
	f.record("NextEvents")
	if f.nextEvents == nil {
		return []Match{}, nil
	}
	return f.nextEvents(ctx, leagueID)
}

func (f *fakeGateway) PastEvents(ctx context.Context, leagueID string) ([]Match, error) {
	f.record("PastEvents")
	if f.pastEvents == nil {
		return []Match{}, nil
	}
	return f.pastEvents(ctx, leagueID)
}

func (f *fakeGateway) EventsOnDay(ctx context.Context, date, sport string) ([]Match, error) {
	f.record("EventsOnDay")
	if f.eventsOnDay == nil {
		return []Match{}, nil
	}
	return f.eventsOnDay(ctx, date, sport)
}

// hydratingLookup answers LookupLeague for every id except those in failing.
func hydratingLookup(failing ...string) func(ctx context.Context, id string) (League, error) {
	return func(ctx context.Context, id string) (League, error) {
		for _, f := range failing {
			if f == id {
				return League{}, ErrNotFound
			}
		}
		return League{ID: id, Name: "League " + id, Sport: "Soccer", BadgeImageURL: "https://img/" + id + ".png"}, nil
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.HydrationConcurrency = 4
	return cfg
}

func intPtr(n int) *int { return &n }
