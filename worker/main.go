package main

import (
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	sports "sportx"
)

func main() {
	logger := sports.NewLogger()

	cfg, err := sports.LoadConfig()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	opts, err := sports.GetClientOptions(cfg, logger)
	if err != nil {
		logger.Error("Unable to configure Temporal client", "error", err)
		os.Exit(1)
	}
	c, err := client.Dial(opts)
	if err != nil {
		logger.Error("Unable to create Temporal client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	gateway := sports.NewSportsDBClient(cfg.SportsDBBaseURL, cfg.HTTPTimeout, logger)
	activities := &sports.Activities{
		Aggregator: sports.NewAggregator(gateway, cfg, logger),
		Assistant:  sports.NewAssistant(gateway, sports.NewLeagueIndex(), sports.NewGeminiClient(cfg, logger), cfg, logger),
	}

	w := worker.New(c, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: cfg.HydrationConcurrency * 4,
	})

	w.RegisterWorkflow(sports.CountryLeaguesWorkflow)
	w.RegisterWorkflow(sports.ChatTurnWorkflow)
	w.RegisterActivity(activities)

	logger.Info("Starting Temporal worker for SportX...", "taskQueue", cfg.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Unable to start worker", "error", err)
		os.Exit(1)
	}
}
