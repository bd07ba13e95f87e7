package sports

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// WellKnownLeague is a league the assistant always fetches fixtures for.
// DefaultID is used when the name-to-id cache cannot resolve Name.
type WellKnownLeague struct {
	Name      string `yaml:"name"`
	DefaultID string `yaml:"default_id"`
}

type Config struct {
	Port            string        `yaml:"port"`
	SportsDBBaseURL string        `yaml:"sportsdb_base_url"`
	AuthBaseURL     string        `yaml:"auth_base_url"`
	GeminiBaseURL   string        `yaml:"gemini_base_url"`
	GeminiModel     string        `yaml:"gemini_model"`
	GeminiAPIKey    string        `yaml:"-"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`

	MajorSports          []string `yaml:"major_sports"`
	LeagueCandidateCap   int      `yaml:"league_candidate_cap"`
	HydrationConcurrency int      `yaml:"hydration_concurrency"`

	TodaySport       string            `yaml:"today_sport"`
	TodayMatchCap    int               `yaml:"today_match_cap"`
	LeagueMatchCap   int               `yaml:"league_match_cap"`
	WellKnownLeagues []WellKnownLeague `yaml:"well_known_leagues"`

	DefaultCountry string `yaml:"default_country"`
	DefaultLeague  League `yaml:"-"`

	KVBackend  string `yaml:"kv_backend"`
	SQLitePath string `yaml:"sqlite_path"`
	RedisURL   string `yaml:"redis_url"`

	TemporalHost      string `yaml:"temporal_host"`
	TemporalNamespace string `yaml:"temporal_namespace"`
	TemporalAPIKey    string `yaml:"-"`
	TaskQueue         string `yaml:"task_queue"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Port:            "8080",
		SportsDBBaseURL: DefaultSportsDBBaseURL,
		AuthBaseURL:     DefaultAuthBaseURL,
		GeminiBaseURL:   DefaultGeminiBaseURL,
		GeminiModel:     "gemini-2.5-flash",
		HTTPTimeout:     15 * time.Second,

		MajorSports: []string{
			"Soccer", "Basketball", "American Football", "Ice Hockey",
			"Baseball", "Cricket", "Rugby",
		},
		LeagueCandidateCap:   8,
		HydrationConcurrency: 8,

		TodaySport:     "Soccer",
		TodayMatchCap:  15,
		LeagueMatchCap: 5,
		WellKnownLeagues: []WellKnownLeague{
			{Name: "English Premier League", DefaultID: "4328"},
			{Name: "Spanish La Liga", DefaultID: "4335"},
			{Name: "Italian Serie A", DefaultID: "4332"},
			{Name: "German Bundesliga", DefaultID: "4331"},
			{Name: "French Ligue 1", DefaultID: "4334"},
			{Name: "NBA", DefaultID: "4387"},
		},

		DefaultCountry: "England",
		DefaultLeague: League{
			ID:    "4328",
			Name:  "English Premier League",
			Sport: "Soccer",
		},

		KVBackend:  "sqlite",
		SQLitePath: "sportx.db",

		TemporalNamespace: "default",
		TaskQueue:         TaskQueueName,
	}
}

// LoadConfig reads .env (if present), an optional YAML file named by
// SPORTX_CONFIG, and finally environment variables, in that order of
// increasing precedence.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := DefaultConfig()
	if path := os.Getenv("SPORTX_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.SportsDBBaseURL, "SPORTSDB_BASE_URL")
	overrideString(&cfg.AuthBaseURL, "AUTH_BASE_URL")
	overrideString(&cfg.GeminiBaseURL, "GEMINI_BASE_URL")
	overrideString(&cfg.GeminiModel, "GEMINI_MODEL")
	overrideString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&cfg.DefaultCountry, "DEFAULT_COUNTRY")
	overrideString(&cfg.KVBackend, "KV_BACKEND")
	overrideString(&cfg.SQLitePath, "SQLITE_PATH")
	overrideString(&cfg.RedisURL, "REDIS_URL")
	overrideString(&cfg.TemporalHost, "TEMPORAL_HOST")
	overrideString(&cfg.TemporalNamespace, "TEMPORAL_NAMESPACE")
	overrideString(&cfg.TemporalAPIKey, "TEMPORAL_API_KEY")
	overrideString(&cfg.TaskQueue, "TASK_QUEUE")
	overrideString(&cfg.TodaySport, "TODAY_SPORT")

	if v := os.Getenv("MAJOR_SPORTS"); v != "" {
		cfg.MajorSports = splitList(v)
	}
	if err := overrideInt(&cfg.LeagueCandidateCap, "LEAGUE_CANDIDATE_CAP"); err != nil {
		return Config{}, err
	}
	if err := overrideInt(&cfg.HydrationConcurrency, "HYDRATION_CONCURRENCY"); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}

	if cfg.LeagueCandidateCap <= 0 {
		return Config{}, fmt.Errorf("league candidate cap must be positive, got %d", cfg.LeagueCandidateCap)
	}
	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NewLogger builds the process-wide text logger and installs it as the slog default.
func NewLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}
