package sports

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"sportx/kvstore"
)

type ChangeKind string

const (
	ChangeRestored        ChangeKind = "restored"
	ChangeActiveLeague    ChangeKind = "active_league"
	ChangeSelectedCountry ChangeKind = "selected_country"
	ChangeFavorites       ChangeKind = "favorites"
)

// Selection is a point-in-time copy of the application state.
type Selection struct {
	ActiveLeague    League   `json:"activeLeague"`
	SelectedCountry string   `json:"selectedCountry"`
	Favorites       []string `json:"favorites"`
}

type Change struct {
	Kind      ChangeKind `json:"kind"`
	Selection Selection  `json:"selection"`
}

// StateStore owns the active league, the selected country and the favorite
// set. Every mutation is published to subscribers and queued for persistence
// while mu is held, so writes reach the store in mutation order.
type StateStore struct {
	writer   *kvstore.Writer
	defaults Selection
	logger   *slog.Logger

	mu        sync.RWMutex
	league    League
	country   string
	favorites []string

	subMu  sync.Mutex
	subs   map[int]chan Change
	nextID int
}

// NewStateStore starts from the configured defaults. writer may be nil, in
// which case nothing is persisted.
func NewStateStore(writer *kvstore.Writer, cfg Config, logger *slog.Logger) *StateStore {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := Selection{
		ActiveLeague:    cfg.DefaultLeague,
		SelectedCountry: cfg.DefaultCountry,
		Favorites:       []string{},
	}
	return &StateStore{
		writer:    writer,
		defaults:  defaults,
		logger:    logger,
		league:    defaults.ActiveLeague,
		country:   defaults.SelectedCountry,
		favorites: []string{},
		subs:      make(map[int]chan Change),
	}
}

// Restore loads persisted values. Each key that is absent or unreadable
// keeps its default.
func (s *StateStore) Restore(ctx context.Context) {
	league, country, favorites := s.defaults.ActiveLeague, s.defaults.SelectedCountry, []string{}

	if s.writer != nil {
		store := s.writer.Store()
		if v, err := store.Get(ctx, KeyActiveCountry); err == nil && v != "" {
			country = v
		} else {
			s.logRestoreMiss(KeyActiveCountry, err)
		}

		if v, err := store.Get(ctx, KeyActiveLeague); err == nil {
			var l League
			if err := json.Unmarshal([]byte(v), &l); err == nil && l.ID != "" {
				league = l
			} else {
				s.logRestoreMiss(KeyActiveLeague, err)
			}
		} else {
			s.logRestoreMiss(KeyActiveLeague, err)
		}

		if v, err := store.Get(ctx, KeyFavorites); err == nil {
			var ids []string
			if err := json.Unmarshal([]byte(v), &ids); err == nil {
				favorites = dedupe(ids)
			} else {
				s.logRestoreMiss(KeyFavorites, err)
			}
		} else {
			s.logRestoreMiss(KeyFavorites, err)
		}
	}

	s.mu.Lock()
	s.league, s.country, s.favorites = league, country, favorites
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("Restored application state", "country", country, "leagueID", league.ID, "favorites", len(favorites))
	s.publish(Change{Kind: ChangeRestored, Selection: snap})
}

func (s *StateStore) logRestoreMiss(key string, err error) {
	if err == nil || errors.Is(err, kvstore.ErrNotFound) {
		return
	}
	s.logger.Warn("Using default for unreadable state", "key", key, "error", err)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *StateStore) Snapshot() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *StateStore) snapshotLocked() Selection {
	return Selection{
		ActiveLeague:    s.league,
		SelectedCountry: s.country,
		Favorites:       slices.Clone(s.favorites),
	}
}

func (s *StateStore) ActiveLeague() League {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.league
}

func (s *StateStore) SelectedCountry() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.country
}

func (s *StateStore) SetActiveLeague(l League) {
	l.Favorite = false
	s.mu.Lock()
	defer s.mu.Unlock()
	s.league = l

	if data, err := json.Marshal(l); err == nil {
		s.persist(KeyActiveLeague, string(data))
	}
	s.publish(Change{Kind: ChangeActiveLeague, Selection: s.snapshotLocked()})
}

func (s *StateStore) SetSelectedCountry(country string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.country = country

	s.persist(KeyActiveCountry, country)
	s.publish(Change{Kind: ChangeSelectedCountry, Selection: s.snapshotLocked()})
}

// ToggleFavorite adds id to the favorite set or removes it, and reports
// whether id is a favorite afterwards.
func (s *StateStore) ToggleFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	favorite := false
	if i := slices.Index(s.favorites, id); i >= 0 {
		s.favorites = slices.Delete(s.favorites, i, i+1)
	} else {
		s.favorites = append(s.favorites, id)
		favorite = true
	}
	snap := s.snapshotLocked()

	if data, err := json.Marshal(snap.Favorites); err == nil {
		s.persist(KeyFavorites, string(data))
	}
	s.publish(Change{Kind: ChangeFavorites, Selection: snap})
	return favorite
}

func (s *StateStore) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.favorites, id)
}

func (s *StateStore) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

// persist must be called with mu held.
func (s *StateStore) persist(key, value string) {
	if s.writer == nil {
		return
	}
	s.writer.Set(key, value)
}

// Subscribe returns a channel of state changes and a function that ends the
// subscription. A slow subscriber loses older changes, never the latest.
func (s *StateStore) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 16)
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *StateStore) publish(c Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- c:
			default:
			}
		}
	}
}
