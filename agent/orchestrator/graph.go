package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
)

func (o *Orchestrator) compileSendTurnGraph(
	ctx context.Context,
) (compose.Runnable[TurnInput, TurnResult], error) {
	graph := compose.NewGraph[TurnInput, TurnResult]()

	if err := graph.AddLambdaNode("validate_turn",
		compose.InvokableLambda(func(ctx context.Context, in TurnInput) (*turnState, error) {
			return o.validateTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_turn: %w", err)
	}

	if err := graph.AddLambdaNode("run_tool_loop",
		compose.InvokableLambda(func(ctx context.Context, st *turnState) (*turnState, error) {
			return o.runToolLoop(ctx, st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_tool_loop: %w", err)
	}

	if err := graph.AddLambdaNode("classify_reply",
		compose.InvokableLambda(func(ctx context.Context, st *turnState) (*turnState, error) {
			return classifyReply(st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_reply: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_turn",
		compose.InvokableLambda(func(ctx context.Context, st *turnState) (TurnResult, error) {
			return o.finalizeTurn(st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_turn: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_turn"},
		{"validate_turn", "run_tool_loop"},
		{"run_tool_loop", "classify_reply"},
		{"classify_reply", "finalize_turn"},
		{"finalize_turn", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.send_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile send_turn graph: %w", err)
	}
	return runner, nil
}
