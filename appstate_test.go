package sports

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportx/kvstore"
)

func newTestState(t *testing.T) (*StateStore, *kvstore.Writer, *kvstore.MemoryStore) {
	t.Helper()
	mem := kvstore.NewMemoryStore()
	w := kvstore.NewWriter(mem, nil)
	return NewStateStore(w, testConfig(), nil), w, mem
}

func flush(t *testing.T, w *kvstore.Writer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Flush(ctx))
}

func TestStateStore_Defaults(t *testing.T) {
	s := NewStateStore(nil, testConfig(), nil)

	snap := s.Snapshot()
	assert.Equal(t, "England", snap.SelectedCountry)
	assert.Equal(t, "4328", snap.ActiveLeague.ID)
	assert.NotNil(t, snap.Favorites)
	assert.Empty(t, snap.Favorites)
}

func TestStateStore_ToggleFavorite(t *testing.T) {
	s, w, mem := newTestState(t)

	assert.True(t, s.ToggleFavorite("4328"))
	assert.True(t, s.IsFavorite("4328"))
	assert.True(t, s.ToggleFavorite("4335"))
	assert.Equal(t, []string{"4328", "4335"}, s.Favorites())

	assert.False(t, s.ToggleFavorite("4328"), "toggling twice restores the original state")
	assert.False(t, s.IsFavorite("4328"))
	assert.Equal(t, []string{"4335"}, s.Favorites())

	flush(t, w)
	v, err := mem.Get(context.Background(), KeyFavorites)
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(v), &ids))
	assert.Equal(t, []string{"4335"}, ids)
}

func TestStateStore_ConcurrentMutationsPersistLatest(t *testing.T) {
	s, w, mem := newTestState(t)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ToggleFavorite(fmt.Sprintf("%d", 4300+i%8))
			s.SetSelectedCountry(fmt.Sprintf("Country%d", i))
			s.SetActiveLeague(League{ID: fmt.Sprintf("%d", 4300+i)})
		}()
	}
	wg.Wait()
	flush(t, w)

	ctx := context.Background()
	snap := s.Snapshot()

	v, err := mem.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(v), &ids))
	assert.Equal(t, snap.Favorites, ids)

	country, err := mem.Get(ctx, KeyActiveCountry)
	require.NoError(t, err)
	assert.Equal(t, snap.SelectedCountry, country)

	v, err = mem.Get(ctx, KeyActiveLeague)
	require.NoError(t, err)
	var league League
	require.NoError(t, json.Unmarshal([]byte(v), &league))
	assert.Equal(t, snap.ActiveLeague.ID, league.ID)
}

func TestStateStore_SetActiveLeague(t *testing.T) {
	s, w, mem := newTestState(t)

	s.SetActiveLeague(League{ID: "4335", Name: "Spanish La Liga", Sport: "Soccer", Favorite: true})
	assert.Equal(t, "4335", s.ActiveLeague().ID)
	assert.False(t, s.ActiveLeague().Favorite)

	flush(t, w)
	v, err := mem.Get(context.Background(), KeyActiveLeague)
	require.NoError(t, err)
	var l League
	require.NoError(t, json.Unmarshal([]byte(v), &l))
	assert.Equal(t, "Spanish La Liga", l.Name)
}

func TestStateStore_Restore(t *testing.T) {
	t.Run("persisted values win", func(t *testing.T) {
		mem := kvstore.NewMemoryStore()
		ctx := context.Background()
		require.NoError(t, mem.Set(ctx, KeyActiveCountry, "Spain"))
		require.NoError(t, mem.Set(ctx, KeyActiveLeague, `{"id":"4335","name":"Spanish La Liga","sport":"Soccer"}`))
		require.NoError(t, mem.Set(ctx, KeyFavorites, `["4335","4328","4335"]`))

		s := NewStateStore(kvstore.NewWriter(mem, nil), testConfig(), nil)
		s.Restore(ctx)

		snap := s.Snapshot()
		assert.Equal(t, "Spain", snap.SelectedCountry)
		assert.Equal(t, "4335", snap.ActiveLeague.ID)
		assert.Equal(t, []string{"4335", "4328"}, snap.Favorites)
	})

	t.Run("missing and corrupt values fall back to defaults", func(t *testing.T) {
		mem := kvstore.NewMemoryStore()
		ctx := context.Background()
		require.NoError(t, mem.Set(ctx, KeyActiveLeague, `{not json`))
		require.NoError(t, mem.Set(ctx, KeyFavorites, `"4328"`))

		s := NewStateStore(kvstore.NewWriter(mem, nil), testConfig(), nil)
		s.Restore(ctx)

		snap := s.Snapshot()
		assert.Equal(t, "England", snap.SelectedCountry)
		assert.Equal(t, "4328", snap.ActiveLeague.ID)
		assert.Empty(t, snap.Favorites)
	})

	t.Run("round trip through a fresh store", func(t *testing.T) {
		s, w, mem := newTestState(t)
		s.SetSelectedCountry("Italy")
		s.SetActiveLeague(League{ID: "4332", Name: "Italian Serie A", Sport: "Soccer"})
		s.ToggleFavorite("4332")
		flush(t, w)

		restored := NewStateStore(kvstore.NewWriter(mem, nil), testConfig(), nil)
		restored.Restore(context.Background())
		assert.Equal(t, s.Snapshot(), restored.Snapshot())
	})
}

func TestStateStore_Subscribe(t *testing.T) {
	s := NewStateStore(nil, testConfig(), nil)
	changes, unsubscribe := s.Subscribe()

	s.SetSelectedCountry("Spain")
	s.ToggleFavorite("4335")

	c := <-changes
	assert.Equal(t, ChangeSelectedCountry, c.Kind)
	assert.Equal(t, "Spain", c.Selection.SelectedCountry)

	c = <-changes
	assert.Equal(t, ChangeFavorites, c.Kind)
	assert.Equal(t, []string{"4335"}, c.Selection.Favorites)

	unsubscribe()
	_, ok := <-changes
	assert.False(t, ok)
	unsubscribe()
}

func TestStateStore_SlowSubscriberKeepsLatest(t *testing.T) {
	s := NewStateStore(nil, testConfig(), nil)
	changes, unsubscribe := s.Subscribe()
	defer unsubscribe()

	countries := []string{}
	for i := 0; i < 40; i++ {
		countries = append(countries, "Country"+string(rune('A'+i%26)))
		s.SetSelectedCountry(countries[i])
	}

	var last Change
	for len(changes) > 0 {
		last = <-changes
	}
	assert.Equal(t, countries[len(countries)-1], last.Selection.SelectedCountry)
}
