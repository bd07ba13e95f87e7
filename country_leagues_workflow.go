package sports

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Remote calls are attempted once; the user retries by refreshing.
var singleAttempt = workflow.ActivityOptions{
	StartToCloseTimeout: 30 * time.Second,
	RetryPolicy: &temporal.RetryPolicy{
		MaximumAttempts: 1,
	},
}

// CountryLeaguesWorkflow searches the leagues of a country and hydrates the
// candidates in parallel. Leagues whose hydration fails are left out and the
// search order is kept.
func CountryLeaguesWorkflow(ctx workflow.Context, country string) ([]League, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting Country Leagues Workflow.", "country", country)

	ctx = workflow.WithActivityOptions(ctx, singleAttempt)

	var a *Activities
	var candidates []League
	err := workflow.ExecuteActivity(ctx, a.SearchLeagueCandidates, country).Get(ctx, &candidates)
	if err != nil {
		logger.Error("Failed to search leagues", "country", country, "error", err)
		return nil, err
	}
	if len(candidates) == 0 {
		logger.Info("No leagues for country", "country", country)
		return []League{}, nil
	}

	futures := make([]workflow.Future, len(candidates))
	for i, candidate := range candidates {
		futures[i] = workflow.ExecuteActivity(ctx, a.HydrateLeague, candidate)
	}

	leagues := make([]League, 0, len(candidates))
	for i, f := range futures {
		var league League
		if err := f.Get(ctx, &league); err != nil {
			logger.Warn("Dropping league after failed hydration", "leagueID", candidates[i].ID, "error", err)
			continue
		}
		leagues = append(leagues, league)
	}

	logger.Info("Country Leagues Workflow completed.", "country", country, "count", len(leagues))
	return leagues, nil
}
