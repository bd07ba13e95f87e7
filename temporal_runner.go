package sports

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
)

// WorkflowStarter is the part of client.Client used to run workflows.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalReplier runs each chat turn as a ChatTurnWorkflow. The workflow id
// is derived from the conversation, so a second turn for the same
// conversation is rejected by the server while the first is running.
type TemporalReplier struct {
	starter   WorkflowStarter
	taskQueue string
}

func NewTemporalReplier(starter WorkflowStarter, taskQueue string) *TemporalReplier {
	if taskQueue == "" {
		taskQueue = TaskQueueName
	}
	return &TemporalReplier{starter: starter, taskQueue: taskQueue}
}

func (r *TemporalReplier) Reply(ctx context.Context, req ChatTurnRequest) (string, error) {
	options := client.StartWorkflowOptions{
		ID:                                       "chat-" + req.ConversationID,
		TaskQueue:                                r.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	we, err := r.starter.ExecuteWorkflow(ctx, options, ChatTurnWorkflow, req)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			return "", ErrTurnInFlight
		}
		return "", fmt.Errorf("unable to execute workflow: %w", err)
	}

	var reply string
	if err := we.Get(ctx, &reply); err != nil {
		return "", fmt.Errorf("chat turn workflow %s failed: %w", we.GetID(), err)
	}
	return reply, nil
}

// TemporalLeagueLoader loads country leagues through CountryLeaguesWorkflow.
type TemporalLeagueLoader struct {
	starter   WorkflowStarter
	taskQueue string
}

func NewTemporalLeagueLoader(starter WorkflowStarter, taskQueue string) *TemporalLeagueLoader {
	if taskQueue == "" {
		taskQueue = TaskQueueName
	}
	return &TemporalLeagueLoader{starter: starter, taskQueue: taskQueue}
}

func (l *TemporalLeagueLoader) LoadLeaguesForCountry(ctx context.Context, country string) ([]League, error) {
	options := client.StartWorkflowOptions{
		ID:        "country-leagues-" + uuid.NewString(),
		TaskQueue: l.taskQueue,
	}
	we, err := l.starter.ExecuteWorkflow(ctx, options, CountryLeaguesWorkflow, country)
	if err != nil {
		return nil, fmt.Errorf("unable to execute workflow: %w", err)
	}

	var leagues []League
	if err := we.Get(ctx, &leagues); err != nil {
		return nil, fmt.Errorf("country leagues workflow %s failed: %w", we.GetID(), err)
	}
	if leagues == nil {
		leagues = []League{}
	}
	return leagues, nil
}
