package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/rail/pkg/domain"
)

// LogHooks returns hooks that log every lifecycle event at debug level.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_enter", "call_id", e.CallID, "path", e.Path, "tag", e.Tag)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			if e.Err != nil {
				logger.DebugContext(ctx, "node_leave", "call_id", e.CallID, "path", e.Path, "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "node_leave", "call_id", e.CallID, "path", e.Path)
		},
		OnValidatorCall: func(ctx context.Context, e *domain.ValidatorEvent) {
			logger.DebugContext(ctx, "validator_call", "call_id", e.CallID, "path", e.Path, "validator", e.Validator)
		},
		OnValidatorReturn: func(ctx context.Context, e *domain.ValidatorEvent) {
			logger.DebugContext(ctx, "validator_return",
				"call_id", e.CallID,
				"path", e.Path,
				"validator", e.Validator,
				"is_error", e.Err != nil,
			)
		},
	}
}

// Combine fans each event out to all hooks, in order.
func Combine(hooks ...domain.Hooks) domain.Hooks {
	var out domain.Hooks
	for _, h := range hooks {
		out.OnNodeEnter = chain(out.OnNodeEnter, h.OnNodeEnter)
		out.OnNodeLeave = chain(out.OnNodeLeave, h.OnNodeLeave)
		out.OnValidatorCall = chain(out.OnValidatorCall, h.OnValidatorCall)
		out.OnValidatorReturn = chain(out.OnValidatorReturn, h.OnValidatorReturn)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
