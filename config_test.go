package sports

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SPORTX_CONFIG", "")
	t.Setenv("MAJOR_SPORTS", "")
	t.Setenv("LEAGUE_CANDIDATE_CAP", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.LeagueCandidateCap)
	assert.Len(t, cfg.MajorSports, 7)
	assert.Len(t, cfg.WellKnownLeagues, 6)
	assert.Equal(t, "4328", cfg.DefaultLeague.ID)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SPORTX_CONFIG", "")
	t.Setenv("DEFAULT_COUNTRY", "Spain")
	t.Setenv("MAJOR_SPORTS", "Soccer, Cricket ,")
	t.Setenv("LEAGUE_CANDIDATE_CAP", "3")
	t.Setenv("HTTP_TIMEOUT", "2s")
	t.Setenv("KV_BACKEND", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Spain", cfg.DefaultCountry)
	assert.Equal(t, []string{"Soccer", "Cricket"}, cfg.MajorSports)
	assert.Equal(t, 3, cfg.LeagueCandidateCap)
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "memory", cfg.KVBackend)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sportx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
today_sport: Basketball
today_match_cap: 10
well_known_leagues:
  - name: NBA
    default_id: "4387"
`), 0o644))
	t.Setenv("SPORTX_CONFIG", path)
	t.Setenv("TODAY_SPORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Basketball", cfg.TodaySport)
	assert.Equal(t, 10, cfg.TodayMatchCap)
	assert.Equal(t, []WellKnownLeague{{Name: "NBA", DefaultID: "4387"}}, cfg.WellKnownLeagues)
	assert.Equal(t, 5, cfg.LeagueMatchCap, "keys absent from the file keep their defaults")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("SPORTX_CONFIG", "")

	t.Run("non numeric cap", func(t *testing.T) {
		t.Setenv("LEAGUE_CANDIDATE_CAP", "many")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("zero cap", func(t *testing.T) {
		t.Setenv("LEAGUE_CANDIDATE_CAP", "0")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("LEAGUE_CANDIDATE_CAP", "")
		t.Setenv("SPORTX_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
