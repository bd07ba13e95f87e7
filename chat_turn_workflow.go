package sports

import (
	"go.temporal.io/sdk/workflow"
)

const (
	TurnStageContext    = "building_context"
	TurnStageGenerating = "generating"
	TurnStageDone       = "done"
)

// ChatTurnWorkflow answers one chat question: it grounds the question in
// live fixtures, then asks the model once.
func ChatTurnWorkflow(ctx workflow.Context, req ChatTurnRequest) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting Chat Turn Workflow", "conversationID", req.ConversationID)

	stage := TurnStageContext
	err := workflow.SetQueryHandler(ctx, "turnState", func() (string, error) {
		return stage, nil
	})
	if err != nil {
		logger.Error("Failed to set query handler", "error", err)
		return "", err
	}

	ctx = workflow.WithActivityOptions(ctx, singleAttempt)

	var a *Activities
	var prompt string
	if err := workflow.ExecuteActivity(ctx, a.BuildAssistantPrompt, req.Question).Get(ctx, &prompt); err != nil {
		logger.Error("Failed to build assistant prompt", "error", err)
		return "", err
	}

	stage = TurnStageGenerating
	var reply string
	if err := workflow.ExecuteActivity(ctx, a.GenerateReply, prompt).Get(ctx, &reply); err != nil {
		logger.Error("Failed to generate reply", "error", err)
		return "", err
	}

	stage = TurnStageDone
	logger.Info("Chat Turn Workflow completed.", "conversationID", req.ConversationID)
	return reply, nil
}
