package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/Chative-support-poc/server/pkg/logger"
)

// NewAllCallbacks aggregates the node and graph observers into one callbacks.Handler.
func NewAllCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Lambda(newNodeHandler()).
		Graph(newGraphHandler()).
		Handler()
}

// newNodeHandler logs lambda node lifecycle events at debug level.
func newNodeHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, input einocb.CallbackInput) context.Context {
			logx.Debug().
				Str("node", nodeName(info)).
				Msg("Node started")
			return ctx
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, output einocb.CallbackOutput) context.Context {
			ev := logx.Debug().Str("node", nodeName(info))
			if msg, ok := output.(*schema.Message); ok && msg != nil {
				ev = ev.Str("reply", msg.Content)
			}
			ev.Msg("Node finished")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().
				Str("node", nodeName(info)).
				Err(err).
				Msg("Node failed")
			return ctx
		}).
		Build()
}

// newGraphHandler only reports failed turns; successful ones are covered per node.
func newGraphHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().
				Str("graph", nodeName(info)).
				Err(err).
				Msg("Turn aborted")
			return ctx
		}).
		Build()
}

func nodeName(info *einocb.RunInfo) string {
	if info == nil {
		return ""
	}
	return info.Name
}
