package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"

	sports "sportx"
	"sportx/kvstore"
	"sportx/session"
	"sportx/web"
)

func main() {
	logger := sports.NewLogger()

	cfg, err := sports.LoadConfig()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := kvstore.Open(ctx, kvstore.Options{
		Backend:    cfg.KVBackend,
		SQLitePath: cfg.SQLitePath,
		RedisURL:   cfg.RedisURL,
		KeyPrefix:  "sportx:",
	}, logger)
	if err != nil {
		logger.Error("Unable to open kv store", "error", err)
		os.Exit(1)
	}
	writer := kvstore.NewWriter(store, logger)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := writer.Close(flushCtx); err != nil {
			logger.Error("Failed to close kv store", "error", err)
		}
	}()

	gateway := sports.NewSportsDBClient(cfg.SportsDBBaseURL, cfg.HTTPTimeout, logger)
	aggregator := sports.NewAggregator(gateway, cfg, logger)
	assistant := sports.NewAssistant(gateway, sports.NewLeagueIndex(), sports.NewGeminiClient(cfg, logger), cfg, logger)
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, the assistant will answer with its fallback message")
	}

	state := sports.NewStateStore(writer, cfg, logger)
	state.Restore(ctx)

	sess := session.New(store, cfg.AuthBaseURL, cfg.HTTPTimeout, logger)
	sess.Restore(ctx)

	// Without Temporal the aggregation and chat turns run in-process.
	var temporalClient client.Client
	var loader sports.LeagueLoader = aggregator
	var replier sports.Replier = assistant
	if opts, err := sports.GetClientOptions(cfg, logger); err != nil {
		logger.Warn("Temporal not configured, running in-process", "error", err)
	} else if c, err := client.Dial(opts); err != nil {
		logger.Warn("Unable to create Temporal client, running in-process", "error", err)
	} else {
		defer c.Close()
		temporalClient = c
		loader = sports.NewTemporalLeagueLoader(c, cfg.TaskQueue)
		replier = sports.NewTemporalReplier(c, cfg.TaskQueue)
		logger.Info("Successfully connected to Temporal server")
	}

	dashboard := sports.NewDashboard(loader, state, logger)
	hub := web.NewHub(logger)
	go hub.Run(ctx)
	web.PushUpdates(ctx, state, dashboard, hub)
	go dashboard.Run(ctx)

	handlers := web.NewHandlers(web.Deps{
		TemporalClient:    temporalClient,
		TemporalNamespace: cfg.TemporalNamespace,
		TemporalUIURL:     sports.TemporalUIBaseURL(cfg),
		Aggregator:        aggregator,
		Assistant:         assistant,
		State:             state,
		Dashboard:         dashboard,
		Session:           sess,
		Conversations:     web.NewConversations(replier, logger),
		Hub:               hub,
		Logger:            logger,
	})

	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           web.NewRouter(handlers, origins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.Info("Starting web server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
