package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-support-poc/server/internal/agent/dialogue"
	"github.com/Chative-support-poc/server/internal/agent/graph/conversations"
	"github.com/Chative-support-poc/server/internal/agent/graph/nodes"
	"github.com/Chative-support-poc/server/internal/agent/graph/observers"
	"github.com/Chative-support-poc/server/internal/agent/model"
	errx "github.com/Chative-support-poc/server/internal/core/error"
	logx "github.com/Chative-support-poc/server/pkg/logger"
)

// ErrMissingConversationID is returned when a turn carries no conversation id.
var ErrMissingConversationID = errors.New("conversation id is required")

// Runner executes one turn of a conversation and exposes the stored history.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
	History(ctx context.Context, conversationID string) ([]*schema.Message, error)
	Reset(ctx context.Context, conversationID string) error
}

// Config holds everything needed to compose the turn graph end-to-end.
type Config struct {
	Engine           *dialogue.Engine
	ConversationRepo model.ConversationRepository
	SessionRepo      model.SessionRepository
}

// GraphConfig holds the collaborators the graph nodes close over.
type GraphConfig struct {
	Engine          *dialogue.Engine
	MessagesManager *conversations.MessagesManager
}

// GraphBuilder handles the construction of the turn graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
	mm       *conversations.MessagesManager
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	if in.ConversationID == "" {
		return "", ErrMissingConversationID
	}

	// load-step-save must not interleave with another turn of the same conversation
	unlock, err := r.mm.Lock(ctx, in.ConversationID)
	if err != nil {
		logx.Warn().
			Err(err).
			Str("conversation_id", in.ConversationID).
			Msg("Gave up waiting for the previous turn")
		return "", errx.WrapTimeout(fmt.Errorf("wait for conversation %s: %w", in.ConversationID, err))
	}
	defer unlock()

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return out.Content, nil
}

func (r *graphRunner) History(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	if conversationID == "" {
		return nil, ErrMissingConversationID
	}
	return r.mm.History(ctx, conversationID)
}

func (r *graphRunner) Reset(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return ErrMissingConversationID
	}
	return r.mm.Reset(ctx, conversationID)
}

// BuildResponseGraph composes the MessagesManager, builds the graph, and returns a Runner.
func BuildResponseGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("dialogue engine is nil")
	}
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}
	if cfg.SessionRepo == nil {
		return nil, fmt.Errorf("session repo is nil")
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.SessionRepo)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		Engine:          cfg.Engine,
		MessagesManager: mm,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Response graph built successfully")
	return &graphRunner{runnable: runnable, mm: mm}, nil
}

// BuildGraph constructs and returns the compiled turn graph:
// START -> InputConverter -> Dialogue -> END.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Engine == nil {
		return nil, fmt.Errorf("dialogue engine is nil")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	mm := b.config.MessagesManager

	if err := b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(mm),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler(mm)),
	); err != nil {
		return fmt.Errorf("error adding %s node: %w", nodes.NodeInputConverter, err)
	}

	if err := b.graph.AddLambdaNode(nodes.NodeDialogue,
		nodes.NewDialogueNode(b.config.Engine),
		compose.WithStatePostHandler(nodes.NewDialoguePostHandler(mm)),
	); err != nil {
		return fmt.Errorf("error adding %s node: %w", nodes.NodeDialogue, err)
	}
	return nil
}

// addEdges creates the flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeDialogue},
		{nodes.NodeDialogue, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("support_turn"),
		compose.WithMaxRunSteps(nodes.DefaultMaxRunSteps),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
