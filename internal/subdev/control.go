package subdev

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mediactl/mediagraph/internal/topology"
)

// ErrNotImplemented is returned by Control implementations for commands
// the underlying device has no notion of. Callers treat it as success for
// power and stream commands: some devices legitimately have no power
// control or stream implicitly.
var ErrNotImplemented = errors.New("subdev: command not implemented")

// FrameInterval is a frame duration expressed as Numerator/Denominator
// seconds per frame.
type FrameInterval struct {
	Numerator   uint32 `yaml:"numerator"`
	Denominator uint32 `yaml:"denominator"`
}

// Control issues commands to a bound subdevice. Calls are synchronous,
// bounded and non-cancellable from this layer's point of view; a caller
// that wants a timeout wraps the context externally. No retries happen
// here: any failure other than ErrNotImplemented is surfaced as-is.
type Control interface {
	Power(ctx context.Context, on bool) error
	SetFrameInterval(ctx context.Context, ival FrameInterval) error
	Stream(ctx context.Context, on bool) error
}

// Unimplemented is a Control for subdevices with no control surface at
// all: every command reports ErrNotImplemented, which power and stream
// callers treat as success.
type Unimplemented struct{}

func (Unimplemented) Power(context.Context, bool) error { return ErrNotImplemented }

func (Unimplemented) SetFrameInterval(context.Context, FrameInterval) error {
	return ErrNotImplemented
}

func (Unimplemented) Stream(context.Context, bool) error { return ErrNotImplemented }

// Subdev is a live subdevice handle as delivered by the registration
// channel. Node is the declared topology position used to match the handle
// to a discovered graph node; Token is minted once the assembled graph is
// published, making the handle externally addressable.
type Subdev struct {
	Name    string
	Node    topology.NodeID
	Entity  *Entity
	Control Control
	Token   uuid.UUID
}
