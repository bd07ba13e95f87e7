package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"

	sports "sportx"
	"sportx/session"
)

// Deps are the components the HTTP surface is built on. TemporalClient may
// be nil, in which case workflow listing runs in demo mode.
type Deps struct {
	TemporalClient    client.Client
	TemporalNamespace string
	// TemporalUIURL prefixes workflow links; links are omitted when empty.
	TemporalUIURL string

	Aggregator     *sports.Aggregator
	Assistant      *sports.Assistant
	State          *sports.StateStore
	Dashboard      *sports.Dashboard
	Session        *session.Session
	Conversations  *Conversations
	Hub            *Hub
	Logger         *slog.Logger
}

type Handlers struct {
	temporalClient client.Client
	namespace      string
	temporalUIURL  string
	agg            *sports.Aggregator
	assistant      *sports.Assistant
	state          *sports.StateStore
	dashboard      *sports.Dashboard
	session        *session.Session
	chats          *Conversations
	hub            *Hub
	logger         *slog.Logger
}

func NewHandlers(d Deps) *Handlers {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	namespace := d.TemporalNamespace
	if namespace == "" {
		namespace = "default"
	}
	return &Handlers{
		temporalClient: d.TemporalClient,
		namespace:      namespace,
		temporalUIURL:  strings.TrimSuffix(d.TemporalUIURL, "/"),
		agg:            d.Aggregator,
		assistant:      d.Assistant,
		state:          d.State,
		dashboard:      d.Dashboard,
		session:        d.Session,
		chats:          d.Conversations,
		hub:            d.Hub,
		logger:         logger,
	}
}

// RunningWorkflow is a workflow execution shown by the workflows endpoint.
type RunningWorkflow struct {
	WorkflowID  string    `json:"workflowId"`
	RunID       string    `json:"runId"`
	WorkflowURL string    `json:"workflowUrl,omitempty"`
	Status      string    `json:"status"`
	Stage       string    `json:"stage,omitempty"`
	StartTime   time.Time `json:"startTime"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"temporal": h.temporalClient != nil,
	})
}

func (h *Handlers) GetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.agg.LoadCountries(r.Context())
	if err != nil {
		h.logger.Error("Failed to load countries", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to load countries")
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

// GetCountryLeagues loads the leagues of any country without touching the selection.
func (h *Handlers) GetCountryLeagues(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	if strings.TrimSpace(country) == "" {
		writeError(w, http.StatusBadRequest, "Country required")
		return
	}
	leagues, err := h.agg.LoadLeaguesForCountry(r.Context(), country)
	if err != nil {
		h.logger.Error("Failed to load leagues", "country", country, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to load leagues")
		return
	}
	writeJSON(w, http.StatusOK, sports.MarkFavorites(leagues, h.state.IsFavorite))
}

// GetDashboard returns the current dashboard view; ?refresh=true reloads it first.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		writeJSON(w, http.StatusOK, h.dashboard.Refresh(r.Context(), h.state.SelectedCountry()))
		return
	}
	writeJSON(w, http.StatusOK, h.dashboard.View())
}

func (h *Handlers) GetSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}

func (h *Handlers) PutSelectedCountry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Country) == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.state.SetSelectedCountry(strings.TrimSpace(req.Country))
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}

func (h *Handlers) PutActiveLeague(w http.ResponseWriter, r *http.Request) {
	var league sports.League
	if err := json.NewDecoder(r.Body).Decode(&league); err != nil || league.ID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.state.SetActiveLeague(league)
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}

// FavoritesResponse carries the favorite ids and the leagues they resolve to.
type FavoritesResponse struct {
	Favorites []string        `json:"favorites"`
	Leagues   []sports.League `json:"leagues"`
}

func (h *Handlers) GetFavorites(w http.ResponseWriter, r *http.Request) {
	ids := h.state.Favorites()
	leagues, err := h.agg.LoadFavoriteLeagues(r.Context(), ids)
	if err != nil {
		h.logger.Warn("Failed to load favorite leagues", "error", err)
		leagues = []sports.League{}
	}
	writeJSON(w, http.StatusOK, FavoritesResponse{Favorites: ids, Leagues: leagues})
}

func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leagueID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "League ID required")
		return
	}
	favorite := h.state.ToggleFavorite(id)
	writeJSON(w, http.StatusOK, map[string]any{"leagueId": id, "favorite": favorite})
}

func (h *Handlers) GetMatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.agg.LoadMatchesForLeague(r.Context(), chi.URLParam(r, "leagueID")))
}

func (h *Handlers) GetResults(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	results, err := h.agg.LoadResults(r.Context(), leagueID)
	if err != nil {
		h.logger.Error("Failed to load results", "leagueID", leagueID, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to load results")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// GetTeams lists the teams of ?league=, defaulting to the active league.
func (h *Handlers) GetTeams(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	if league == "" {
		league = h.state.ActiveLeague().Name
	}
	if league == "" {
		writeError(w, http.StatusBadRequest, "League required")
		return
	}
	teams, err := h.agg.LoadTeams(r.Context(), league)
	if err != nil {
		h.logger.Error("Failed to load teams", "league", league, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to load teams")
		return
	}
	sort.SliceStable(teams, func(i, j int) bool {
		return strings.ToLower(teams[i].Name) < strings.ToLower(teams[j].Name)
	})
	writeJSON(w, http.StatusOK, teams)
}

func (h *Handlers) GetSquad(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	squad, err := h.agg.LoadSquad(r.Context(), teamID)
	if err != nil {
		h.logger.Error("Failed to load squad", "teamID", teamID, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to load squad")
		return
	}
	writeJSON(w, http.StatusOK, squad)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	state, err := h.session.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("Login error", "error", err)
		writeError(w, http.StatusBadGateway, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req session.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	state, err := h.session.Signup(r.Context(), req)
	if errors.Is(err, session.ErrSignupFailed) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("Signup error", "error", err)
		writeError(w, http.StatusBadGateway, "Signup failed. Please try again.")
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.Error("Logout error", "error", err)
		writeError(w, http.StatusInternalServerError, "Logout failed")
		return
	}
	writeJSON(w, http.StatusOK, h.session.Current())
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Current())
}

// openConversation returns the conversation and warms the league index in
// the background the first time it is opened.
func (h *Handlers) openConversation(id string) *sports.Conversation {
	conv, created := h.chats.Get(id)
	if created && h.assistant != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			h.assistant.WarmIndex(ctx)
		}()
	}
	return conv
}

func (h *Handlers) GetMessages(w http.ResponseWriter, r *http.Request) {
	conv := h.openConversation(chi.URLParam(r, "conversationID"))
	writeJSON(w, http.StatusOK, map[string]any{
		"messages":  conv.Messages(),
		"isLoading": conv.Loading(),
	})
}

func (h *Handlers) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conv := h.openConversation(chi.URLParam(r, "conversationID"))
	reply, err := conv.Send(r.Context(), req.Text)
	switch {
	case errors.Is(err, sports.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, sports.ErrTurnInFlight):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reply":    reply,
		"messages": conv.Messages(),
	})
}

// GetWorkflows returns the running aggregation and chat workflows.
func (h *Handlers) GetWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows := []RunningWorkflow{}

	if h.temporalClient == nil {
		writeJSON(w, http.StatusOK, workflows)
		return
	}

	listRequest := &workflowservice.ListWorkflowExecutionsRequest{
		Query: "(WorkflowId STARTS_WITH 'chat-' OR WorkflowId STARTS_WITH 'country-leagues-') AND ExecutionStatus = 'Running'",
	}
	resp, err := h.temporalClient.ListWorkflow(r.Context(), listRequest)
	if err != nil {
		h.logger.Warn("Failed to list workflows", "error", err)
		writeJSON(w, http.StatusOK, workflows)
		return
	}

	for _, execution := range resp.Executions {
		wf := RunningWorkflow{
			WorkflowID: execution.Execution.WorkflowId,
			RunID:      execution.Execution.RunId,
			Status:     execution.Status.String(),
		}
		if execution.StartTime != nil {
			wf.StartTime = execution.StartTime.AsTime()
		}

		if h.temporalUIURL != "" {
			wf.WorkflowURL = fmt.Sprintf("%s/namespaces/%s/workflows/%s/%s", h.temporalUIURL, h.namespace, wf.WorkflowID, wf.RunID)
		}

		if strings.HasPrefix(wf.WorkflowID, "chat-") {
			result, err := h.temporalClient.QueryWorkflow(r.Context(), wf.WorkflowID, wf.RunID, "turnState")
			if err != nil {
				h.logger.Warn("Failed to query workflow", "workflowID", wf.WorkflowID, "error", err)
			} else if err := result.Get(&wf.Stage); err != nil {
				h.logger.Warn("Failed to decode query result", "workflowID", wf.WorkflowID, "error", err)
			}
		}
		workflows = append(workflows, wf)
	}

	sort.SliceStable(workflows, func(i, j int) bool {
		return workflows[i].StartTime.Before(workflows[j].StartTime)
	})
	writeJSON(w, http.StatusOK, workflows)
}

// ServeWs attaches a websocket client that receives selection and dashboard pushes.
func (h *Handlers) ServeWs(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWs(w, r)
}
