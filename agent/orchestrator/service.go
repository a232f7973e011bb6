// Package orchestrator drives one conversation turn against the hosted
// model: it grounds the turn with the session's profile snapshot, executes
// the tool calls the model requests round by round, and classifies the final
// text into a UI payload.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	contractx "github.com/nycscout/agent/agent/contract"
)

// Tool-call rounds allowed per turn before the loop degrades to text only.
const defaultMaxToolRounds = 8

type Config struct {
	MaxToolRounds int
}

type Orchestrator struct {
	chatModel model.ToolCallingChatModel
	retriever contractx.Retriever

	systemPrompt  string
	maxToolRounds int

	graphRunner compose.Runnable[TurnInput, TurnResult]

	now func() time.Time
}

func New(
	ctx context.Context,
	chatModel model.ToolCallingChatModel,
	retriever contractx.Retriever,
	systemPrompt string,
	cfg Config,
) (*Orchestrator, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	systemPrompt = strings.TrimSpace(systemPrompt)
	if systemPrompt == "" {
		return nil, errors.New("system prompt is required")
	}

	toolModel, err := chatModel.WithTools(ToolInfos())
	if err != nil {
		return nil, err
	}

	maxToolRounds := cfg.MaxToolRounds
	if maxToolRounds <= 0 {
		maxToolRounds = defaultMaxToolRounds
	}

	o := &Orchestrator{
		chatModel:     toolModel,
		retriever:     retriever,
		systemPrompt:  systemPrompt,
		maxToolRounds: maxToolRounds,
		now:           time.Now,
	}

	graphRunner, err := o.compileSendTurnGraph(ctx)
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// SendTurn runs one full turn. The caller must not start another turn on the
// same session until this one returns; the session is committed atomically at
// the end of a successful turn and left untouched by an aborted one.
func (o *Orchestrator) SendTurn(ctx context.Context, in TurnInput) (TurnResult, error) {
	return o.graphRunner.Invoke(ctx, in)
}
