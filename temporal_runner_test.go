package sports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
)

func TestTemporalReplier_Reply(t *testing.T) {
	mockClient := &MockTemporalClient{}
	mockRun := &MockWorkflowRun{}

	req := ChatTurnRequest{ConversationID: "c1", Question: "Who won?"}
	mockClient.On("ExecuteWorkflow", mock.Anything,
		mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
			return o.ID == "chat-c1" && o.TaskQueue == TaskQueueName && o.WorkflowExecutionErrorWhenAlreadyStarted
		}),
		mock.Anything, []interface{}{req}).Return(mockRun, nil)
	mockRun.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*string) = "Arsenal won"
	}).Return(nil)

	r := NewTemporalReplier(mockClient, "")
	reply, err := r.Reply(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Arsenal won", reply)
	mockClient.AssertExpectations(t)
	mockRun.AssertExpectations(t)
}

func TestTemporalReplier_AlreadyStarted(t *testing.T) {
	mockClient := &MockTemporalClient{}
	mockClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", ""))

	r := NewTemporalReplier(mockClient, "sports-tracker")
	_, err := r.Reply(context.Background(), ChatTurnRequest{ConversationID: "c1", Question: "q"})
	assert.ErrorIs(t, err, ErrTurnInFlight)
}

func TestTemporalReplier_WorkflowFailure(t *testing.T) {
	mockClient := &MockTemporalClient{}
	mockRun := &MockWorkflowRun{}
	mockClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(mockRun, nil)
	mockRun.On("Get", mock.Anything, mock.Anything).Return(assert.AnError)
	mockRun.On("GetID").Return("chat-c1")

	r := NewTemporalReplier(mockClient, "")
	_, err := r.Reply(context.Background(), ChatTurnRequest{ConversationID: "c1", Question: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ErrTurnInFlight)
}

func TestTemporalLeagueLoader(t *testing.T) {
	mockClient := &MockTemporalClient{}
	mockRun := &MockWorkflowRun{}
	mockClient.On("ExecuteWorkflow", mock.Anything,
		mock.MatchedBy(func(o client.StartWorkflowOptions) bool { return o.TaskQueue == "q1" && o.ID != "" }),
		mock.Anything, []interface{}{"England"}).Return(mockRun, nil)
	mockRun.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*[]League) = []League{{ID: "4328"}}
	}).Return(nil)

	l := NewTemporalLeagueLoader(mockClient, "q1")
	leagues, err := l.LoadLeaguesForCountry(context.Background(), "England")
	require.NoError(t, err)
	assert.Equal(t, []League{{ID: "4328"}}, leagues)
}

func TestTemporalLeagueLoader_NilResultIsEmpty(t *testing.T) {
	mockClient := &MockTemporalClient{}
	mockRun := &MockWorkflowRun{}
	mockClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(mockRun, nil)
	mockRun.On("Get", mock.Anything, mock.Anything).Return(nil)

	l := NewTemporalLeagueLoader(mockClient, "")
	leagues, err := l.LoadLeaguesForCountry(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.NotNil(t, leagues)
	assert.Empty(t, leagues)
}
