package sports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/testsuite"
)

// Mock Temporal client for testing
type MockTemporalClient struct {
	mock.Mock
}

func (m *MockTemporalClient) ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	mockArgs := m.Called(ctx, options, workflow, args)
	run, _ := mockArgs.Get(0).(client.WorkflowRun)
	return run, mockArgs.Error(1)
}

// Mock WorkflowRun for testing
type MockWorkflowRun struct {
	mock.Mock
}

func (m *MockWorkflowRun) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockWorkflowRun) GetRunID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockWorkflowRun) Get(ctx context.Context, valuePtr interface{}) error {
	args := m.Called(ctx, valuePtr)
	return args.Error(0)
}

func (m *MockWorkflowRun) GetWithOptions(ctx context.Context, valuePtr interface{}, options client.WorkflowRunGetOptions) error {
	return m.Get(ctx, valuePtr)
}

func newTestActivities(gw Gateway, responder Responder) *Activities {
	cfg := testConfig()
	return &Activities{
		Aggregator: NewAggregator(gw, cfg, nil),
		Assistant:  NewAssistant(gw, NewLeagueIndex(), responder, cfg, nil),
	}
}

func TestSearchLeagueCandidatesActivity(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}

	tests := []struct {
		name          string
		leagues       []League
		searchErr     error
		expectedIDs   []string
		expectedError bool
	}{
		{
			name: "filters to major sports",
			leagues: []League{
				{ID: "4328", Sport: "Soccer"},
				{ID: "5000", Sport: "Darts"},
				{ID: "4387", Sport: "Basketball"},
			},
			expectedIDs: []string{"4328", "4387"},
		},
		{
			name:        "no leagues",
			leagues:     []League{},
			expectedIDs: []string{},
		},
		{
			name:          "gateway error",
			searchErr:     errors.New("status=500"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testSuite.NewTestActivityEnvironment()
			acts := newTestActivities(&fakeGateway{
				searchLeagues: func(ctx context.Context, country string) ([]League, error) {
					return tt.leagues, tt.searchErr
				},
			}, &stubResponder{})
			env.RegisterActivity(acts)

			encodedValue, err := env.ExecuteActivity(acts.SearchLeagueCandidates, "England")
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var candidates []League
			require.NoError(t, encodedValue.Get(&candidates))
			ids := []string{}
			for _, c := range candidates {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestHydrateLeagueActivity(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	acts := newTestActivities(&fakeGateway{lookupLeague: hydratingLookup("9")}, &stubResponder{})
	env.RegisterActivity(acts)

	encodedValue, err := env.ExecuteActivity(acts.HydrateLeague, League{ID: "4328", Name: "English Premier League", Sport: "Soccer"})
	require.NoError(t, err)
	var league League
	require.NoError(t, encodedValue.Get(&league))
	assert.Equal(t, "4328", league.ID)
	assert.Equal(t, "League 4328", league.Name, "the looked-up record wins over the candidate")
	assert.Equal(t, "https://img/4328.png", league.BadgeImageURL)

	_, err = env.ExecuteActivity(acts.HydrateLeague, League{ID: "9"})
	assert.Error(t, err)
}

func TestBuildAssistantPromptActivity(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	gw := &fakeGateway{
		eventsOnDay: func(ctx context.Context, date, sport string) ([]Match, error) {
			return nil, errors.New("down")
		},
	}
	acts := newTestActivities(gw, &stubResponder{})
	env.RegisterActivity(acts)

	encodedValue, err := env.ExecuteActivity(acts.BuildAssistantPrompt, "Who is top of the league?")
	require.NoError(t, err, "missing data never fails the prompt")

	var prompt string
	require.NoError(t, encodedValue.Get(&prompt))
	assert.Equal(t, AssistantInstruction+"Who is top of the league?", prompt)
	assert.Equal(t, 1, gw.count("AllLeagues"), "the league index is warmed before building")
}

func TestGenerateReplyActivity(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}

	t.Run("reply", func(t *testing.T) {
		env := testSuite.NewTestActivityEnvironment()
		acts := newTestActivities(&fakeGateway{}, &stubResponder{text: "Arsenal are top."})
		env.RegisterActivity(acts)

		encodedValue, err := env.ExecuteActivity(acts.GenerateReply, "prompt")
		require.NoError(t, err)
		var reply string
		require.NoError(t, encodedValue.Get(&reply))
		assert.Equal(t, "Arsenal are top.", reply)
	})

	t.Run("responder failure", func(t *testing.T) {
		env := testSuite.NewTestActivityEnvironment()
		acts := newTestActivities(&fakeGateway{}, &stubResponder{err: ErrMissingAPIKey})
		env.RegisterActivity(acts)

		_, err := env.ExecuteActivity(acts.GenerateReply, "prompt")
		assert.Error(t, err)
	})
}
