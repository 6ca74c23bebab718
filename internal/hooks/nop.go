// Package hooks provides default hook implementations.
package hooks

import (
	"context"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// NopHooks implements every hook as a no-op so callers never nil-check.
type NopHooks struct{}

// NewNop returns Hooks whose callbacks do nothing.
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnAssigned:     h.OnAssigned,
		OnStateChanged: h.OnStateChanged,
		OnError:        h.OnError,
	}
}

// Fill returns a copy of h with every nil callback replaced by a no-op.
func Fill(h *types.Hooks) *types.Hooks {
	nop := NewNop()
	if h == nil {
		return &nop
	}
	out := *h
	if out.OnAssigned == nil {
		out.OnAssigned = nop.OnAssigned
	}
	if out.OnStateChanged == nil {
		out.OnStateChanged = nop.OnStateChanged
	}
	if out.OnError == nil {
		out.OnError = nop.OnError
	}

	return &out
}

// OnAssigned is a no-op.
func (h *NopHooks) OnAssigned(context.Context, *types.RoomAssignmentResult) error {
	return nil
}

// OnStateChanged is a no-op.
func (h *NopHooks) OnStateChanged(context.Context, string, types.AssignmentState, types.AssignmentState) error {
	return nil
}

// OnError is a no-op.
func (h *NopHooks) OnError(context.Context, error) error {
	return nil
}
