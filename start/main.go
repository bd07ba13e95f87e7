package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.temporal.io/sdk/client"

	sports "sportx"
)

func main() {
	logger := sports.NewLogger()

	cfg, err := sports.LoadConfig()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	country := flag.String("country", cfg.DefaultCountry, "country whose leagues to load")
	flag.Parse()

	opts, err := sports.GetClientOptions(cfg, logger)
	if err != nil {
		logger.Error("Unable to configure Temporal client", "error", err)
		os.Exit(1)
	}
	c, err := client.Dial(opts)
	if err != nil {
		logger.Error("Unable to create client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	// Workflow ID carries the country and the start time
	workflowID := fmt.Sprintf("country-leagues-%s-%s", *country, time.Now().Format("20060102-150405"))
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: cfg.TaskQueue,
	}

	we, err := c.ExecuteWorkflow(context.Background(), options, sports.CountryLeaguesWorkflow, *country)
	if err != nil {
		logger.Error("Unable to execute workflow", "error", err)
		os.Exit(1)
	}
	logger.Info("Started workflow", "WorkflowID", we.GetID(), "RunID", we.GetRunID())

	var leagues []sports.League
	if err := we.Get(context.Background(), &leagues); err != nil {
		logger.Error("Workflow failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(leagues); err != nil {
		logger.Error("Unable to print result", "error", err)
		os.Exit(1)
	}
}
