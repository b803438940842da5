package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter       EventType = "node_enter"
	EventNodeLeave       EventType = "node_leave"
	EventValidatorCall   EventType = "validator_call"
	EventValidatorReturn EventType = "validator_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	CallID    string    `json:"call_id,omitempty"` // Correlates all events of one validation call
}

// NodeEvent represents entry into or exit from a schema node.
type NodeEvent struct {
	EventBase
	Path string `json:"path"`
	Tag  string `json:"tag"`
	Err  error  `json:"-"` // Set on leave when the node failed
}

// ValidatorEvent represents one bound validator invocation.
type ValidatorEvent struct {
	EventBase
	Path      string `json:"path"`
	Tag       string `json:"tag"`
	Validator string `json:"validator"`
	Err       error  `json:"-"` // Set on return when the validator failed
}

// Hooks defines callbacks for validation observability. Any field may be nil.
type Hooks struct {
	OnNodeEnter       func(context.Context, *NodeEvent)
	OnNodeLeave       func(context.Context, *NodeEvent)
	OnValidatorCall   func(context.Context, *ValidatorEvent)
	OnValidatorReturn func(context.Context, *ValidatorEvent)
}

type callIDKey struct{}

// WithCallID returns a context carrying the id of the current validation call.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// CallID returns the validation call id stored in ctx, if any.
func CallID(ctx context.Context) string {
	id, _ := ctx.Value(callIDKey{}).(string)
	return id
}
