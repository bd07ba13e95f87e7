package sports

import (
	"context"
	"log/slog"
	"sync"
)

// LeagueLoader produces the hydrated league list of a country.
type LeagueLoader interface {
	LoadLeaguesForCountry(ctx context.Context, country string) ([]League, error)
}

type DashboardStatus string

const (
	DashboardLoading DashboardStatus = "loading"
	DashboardReady   DashboardStatus = "ready"
	DashboardEmpty   DashboardStatus = "empty"
	DashboardError   DashboardStatus = "error"
)

// DashboardView is what the league dashboard shows for the selected country.
type DashboardView struct {
	Status     DashboardStatus `json:"status"`
	Country    string          `json:"country"`
	Leagues    []League        `json:"leagues"`
	Error      string          `json:"error,omitempty"`
	Generation Ticket          `json:"generation"`
}

// Dashboard keeps the league view of the selected country up to date.
// Results of a load superseded by a newer one are discarded.
type Dashboard struct {
	loader LeagueLoader
	state  *StateStore
	logger *slog.Logger

	mu       sync.RWMutex
	gen      Generation
	view     DashboardView
	onUpdate func(DashboardView)
}

func NewDashboard(loader LeagueLoader, state *StateStore, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		loader: loader,
		state:  state,
		logger: logger,
		view:   DashboardView{Status: DashboardLoading, Leagues: []League{}},
	}
}

// OnUpdate registers fn to receive every view change. It must not block.
func (d *Dashboard) OnUpdate(fn func(DashboardView)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onUpdate = fn
}

// View returns the current view with favorite flags taken from the state store.
func (d *Dashboard) View() DashboardView {
	d.mu.RLock()
	view := d.view
	d.mu.RUnlock()
	view.Leagues = MarkFavorites(view.Leagues, d.state.IsFavorite)
	return view
}

// Refresh loads the leagues of country and returns the resulting view. If
// another refresh starts before this one finishes, this one's result is
// dropped and the newer view is returned.
func (d *Dashboard) Refresh(ctx context.Context, country string) DashboardView {
	d.mu.Lock()
	loadCtx, ticket := d.gen.Begin(ctx)
	d.view = DashboardView{Status: DashboardLoading, Country: country, Leagues: []League{}, Generation: ticket}
	d.mu.Unlock()
	d.notify()

	leagues, err := d.loader.LoadLeaguesForCountry(loadCtx, country)

	d.mu.Lock()
	if !d.gen.IsCurrent(ticket) {
		d.mu.Unlock()
		MetricStaleResults.Inc()
		d.logger.Debug("Discarding stale dashboard result", "country", country, "generation", ticket)
		return d.View()
	}
	view := DashboardView{Country: country, Leagues: []League{}, Generation: ticket}
	switch {
	case err != nil:
		view.Status = DashboardError
		view.Error = err.Error()
		d.logger.Error("Failed to load leagues", "country", country, "error", err)
	case len(leagues) == 0:
		view.Status = DashboardEmpty
	default:
		view.Status = DashboardReady
		view.Leagues = leagues
	}
	d.view = view
	d.gen.End(ticket)
	d.mu.Unlock()

	d.notify()
	return d.View()
}

func (d *Dashboard) notify() {
	d.mu.RLock()
	fn := d.onUpdate
	d.mu.RUnlock()
	if fn != nil {
		fn(d.View())
	}
}

// Run refreshes the dashboard for the selected country and again whenever
// the selection changes, until ctx is done.
func (d *Dashboard) Run(ctx context.Context) {
	changes, unsubscribe := d.state.Subscribe()
	defer unsubscribe()

	go d.Refresh(ctx, d.state.SelectedCountry())
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			switch c.Kind {
			case ChangeSelectedCountry, ChangeRestored:
				go d.Refresh(ctx, c.Selection.SelectedCountry)
			case ChangeFavorites:
				d.notify()
			}
		}
	}
}
