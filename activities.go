package sports

import (
	"context"

	"go.temporal.io/sdk/activity"
)

// Activities wraps the aggregation and assistant operations for a Temporal worker.
type Activities struct {
	Aggregator *Aggregator
	Assistant  *Assistant
}

// SearchLeagueCandidates returns the major-sport leagues of a country, capped.
func (a *Activities) SearchLeagueCandidates(ctx context.Context, country string) ([]League, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Searching leagues", "country", country)

	candidates, err := a.Aggregator.LeagueCandidates(ctx, country)
	if err != nil {
		return nil, err
	}
	logger.Info("Found league candidates", "country", country, "count", len(candidates))
	return candidates, nil
}

func (a *Activities) HydrateLeague(ctx context.Context, candidate League) (League, error) {
	activity.GetLogger(ctx).Info("Hydrating league", "leagueID", candidate.ID)
	return a.Aggregator.HydrateLeague(ctx, candidate)
}

// BuildAssistantPrompt never fails; missing data only shortens the prompt.
func (a *Activities) BuildAssistantPrompt(ctx context.Context, question string) (string, error) {
	a.Assistant.WarmIndex(ctx)
	return a.Assistant.BuildPrompt(ctx, question), nil
}

func (a *Activities) GenerateReply(ctx context.Context, prompt string) (string, error) {
	activity.GetLogger(ctx).Info("Requesting assistant reply", "promptLength", len(prompt))
	return a.Assistant.Generate(ctx, prompt)
}
