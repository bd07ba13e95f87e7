package sports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

func TestCountryLeaguesWorkflow(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	var a *Activities
	candidates := []League{
		{ID: "4328", Name: "English Premier League", Sport: "Soccer"},
		{ID: "4329", Name: "English League Championship", Sport: "Soccer"},
		{ID: "4387", Name: "NBA", Sport: "Basketball"},
	}
	env.OnActivity(a.SearchLeagueCandidates, mock.Anything, "England").Return(candidates, nil)
	env.OnActivity(a.HydrateLeague, mock.Anything, mock.Anything).Return(
		func(_ context.Context, l League) (League, error) {
			l.BadgeImageURL = "https://img/" + l.ID + ".png"
			return l, nil
		})

	env.ExecuteWorkflow(CountryLeaguesWorkflow, "England")

	assert.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var leagues []League
	require.NoError(t, env.GetWorkflowResult(&leagues))
	require.Len(t, leagues, 3)
	for i, l := range leagues {
		assert.Equal(t, candidates[i].ID, l.ID)
		assert.NotEmpty(t, l.BadgeImageURL)
	}
	env.AssertExpectations(t)
}

func TestCountryLeaguesWorkflow_DropsFailedHydration(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	var a *Activities
	env.OnActivity(a.SearchLeagueCandidates, mock.Anything, mock.Anything).Return([]League{
		{ID: "1", Sport: "Soccer"},
		{ID: "2", Sport: "Soccer"},
		{ID: "3", Sport: "Soccer"},
	}, nil)
	env.OnActivity(a.HydrateLeague, mock.Anything, mock.MatchedBy(func(l League) bool { return l.ID == "2" })).
		Return(League{}, assert.AnError)
	env.OnActivity(a.HydrateLeague, mock.Anything, mock.MatchedBy(func(l League) bool { return l.ID != "2" })).
		Return(func(_ context.Context, l League) (League, error) { return l, nil })

	env.ExecuteWorkflow(CountryLeaguesWorkflow, "England")

	assert.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var leagues []League
	require.NoError(t, env.GetWorkflowResult(&leagues))
	require.Len(t, leagues, 2)
	assert.Equal(t, "1", leagues[0].ID)
	assert.Equal(t, "3", leagues[1].ID)
}

func TestCountryLeaguesWorkflow_NoCandidates(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	var a *Activities
	env.OnActivity(a.SearchLeagueCandidates, mock.Anything, mock.Anything).Return([]League{}, nil)

	env.ExecuteWorkflow(CountryLeaguesWorkflow, "Atlantis")

	assert.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var leagues []League
	require.NoError(t, env.GetWorkflowResult(&leagues))
	assert.NotNil(t, leagues)
	assert.Empty(t, leagues)
}

func TestCountryLeaguesWorkflow_SearchFailure(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	var a *Activities
	env.OnActivity(a.SearchLeagueCandidates, mock.Anything, mock.Anything).Return(nil, assert.AnError)

	env.ExecuteWorkflow(CountryLeaguesWorkflow, "England")

	assert.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
}
