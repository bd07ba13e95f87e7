package sports

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	AssistantInstruction = "You are a helpful sports assistant for an app called SportX. " +
		"You have access to live sports data. Format your response using markdown (bold, italic, lists, etc.). " +
		"Answer this sports-related question concisely: "

	WelcomeMessage  = "Hello! I am your SportX Assistant. Ask me anything about cricket scores, football rules, or player stats!"
	FallbackMessage = "Sorry, I couldn't connect to the stadium. Please check your internet or API key configuration."
	NoReplyMessage  = "Sorry, I could not generate a response."

	contextHeader = "=== LIVE SPORTS DATA ==="
	contextFooter = "=== END LIVE SPORTS DATA ==="
)

// LeagueIndex maps lower-cased league names (and alternate names) to ids.
// It is safe for concurrent use and may be loaded at any time; until then
// every lookup misses.
type LeagueIndex struct {
	mu     sync.RWMutex
	ids    map[string]string
	loaded bool
	flight singleflight.Group
}

func NewLeagueIndex() *LeagueIndex {
	return &LeagueIndex{ids: make(map[string]string)}
}

// Load fetches the full league directory. Concurrent callers share one request.
func (x *LeagueIndex) Load(ctx context.Context, gw Gateway) error {
	_, err, _ := x.flight.Do("all_leagues", func() (any, error) {
		names, err := gw.AllLeagues(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load league directory: %w", err)
		}
		ids := make(map[string]string, len(names))
		for _, n := range names {
			ids[strings.ToLower(n.Name)] = n.ID
			for _, alt := range n.Alternates {
				if _, taken := ids[strings.ToLower(alt)]; !taken {
					ids[strings.ToLower(alt)] = n.ID
				}
			}
		}
		x.mu.Lock()
		x.ids = ids
		x.loaded = true
		x.mu.Unlock()
		return nil, nil
	})
	return err
}

func (x *LeagueIndex) Loaded() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.loaded
}

// Resolve returns the id of name, or fallback when the index has no entry.
func (x *LeagueIndex) Resolve(name, fallback string) string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if id, ok := x.ids[strings.ToLower(strings.TrimSpace(name))]; ok && id != "" {
		return id
	}
	return fallback
}

// Assistant grounds each question in a snapshot of live fixtures before
// handing it to the Responder.
type Assistant struct {
	gw        Gateway
	index     *LeagueIndex
	responder Responder
	leagues   []WellKnownLeague
	sport     string
	todayCap  int
	leagueCap int
	logger    *slog.Logger
	now       func() time.Time
}

func NewAssistant(gw Gateway, index *LeagueIndex, responder Responder, cfg Config, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	if index == nil {
		index = NewLeagueIndex()
	}
	return &Assistant{
		gw:        gw,
		index:     index,
		responder: responder,
		leagues:   cfg.WellKnownLeagues,
		sport:     cfg.TodaySport,
		todayCap:  cfg.TodayMatchCap,
		leagueCap: cfg.LeagueMatchCap,
		logger:    logger,
		now:       time.Now,
	}
}

// WarmIndex loads the league name cache if it is not loaded yet. Failures
// are logged; lookups keep using the built-in ids.
func (a *Assistant) WarmIndex(ctx context.Context) {
	if a.index.Loaded() {
		return
	}
	if err := a.index.Load(ctx, a.gw); err != nil {
		a.logger.Warn("League index unavailable, using default league ids", "error", err)
	}
}

// BuildPrompt gathers today's matches and the next fixtures of every
// well-known league in parallel and prepends them to the question.
// A section whose query fails or comes back empty is left out.
func (a *Assistant) BuildPrompt(ctx context.Context, question string) string {
	today := a.now().Format("2006-01-02")
	sections := make([]string, 1+len(a.leagues))

	var g errgroup.Group
	g.Go(func() error {
		matches, err := a.gw.EventsOnDay(ctx, today, a.sport)
		if err != nil {
			a.logger.Warn("Skipping today's matches in assistant context", "error", err)
			return nil
		}
		sections[0] = formatSection(fmt.Sprintf("Today's %s matches (%s):", a.sport, today), matches, a.todayCap, todayLine)
		return nil
	})
	for i, wk := range a.leagues {
		i, wk := i, wk
		g.Go(func() error {
			id := a.index.Resolve(wk.Name, wk.DefaultID)
			matches, err := a.gw.NextEvents(ctx, id)
			if err != nil {
				a.logger.Warn("Skipping league in assistant context", "league", wk.Name, "leagueID", id, "error", err)
				return nil
			}
			sections[i+1] = formatSection(wk.Name+" upcoming fixtures:", matches, a.leagueCap, upcomingLine)
			return nil
		})
	}
	_ = g.Wait()

	var b strings.Builder
	var present []string
	for _, s := range sections {
		if s != "" {
			present = append(present, s)
		}
	}
	if len(present) > 0 {
		b.WriteString(contextHeader)
		b.WriteString("\n")
		b.WriteString(strings.Join(present, "\n"))
		b.WriteString(contextFooter)
		b.WriteString("\n\n")
	}
	b.WriteString(AssistantInstruction)
	b.WriteString(question)
	return b.String()
}

func formatSection(title string, matches []Match, limit int, line func(Match) string) string {
	if len(matches) == 0 {
		return ""
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, m := range matches {
		b.WriteString("- ")
		b.WriteString(line(m))
		b.WriteString("\n")
	}
	return b.String()
}

func todayLine(m Match) string {
	return fmt.Sprintf("%s (%s) | %s", m.EventName, m.LeagueName, m.Kickoff())
}

func upcomingLine(m Match) string {
	return fmt.Sprintf("%s (%s) | %s %s", m.EventName, m.LeagueName, m.Date, m.Kickoff())
}

// Generate asks the responder once. An empty answer becomes NoReplyMessage.
func (a *Assistant) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := a.responder.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return NoReplyMessage, nil
	}
	return text, nil
}

// Reply runs a whole chat turn in-process.
func (a *Assistant) Reply(ctx context.Context, req ChatTurnRequest) (string, error) {
	return a.Generate(ctx, a.BuildPrompt(ctx, req.Question))
}
