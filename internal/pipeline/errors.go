package pipeline

import (
	"errors"
	"fmt"

	"github.com/mediactl/mediagraph/internal/topology"
)

// ErrEmptyGraph is reported when graph discovery finds no nodes at all.
// It is a distinct condition from a malformed topology: the device stays
// loaded but inert until the description is corrected.
var ErrEmptyGraph = errors.New("pipeline: no nodes found in graph")

// ErrNotPublished is reported when activation is requested before the
// completion sequence has published the graph. Handles may still be
// arriving; the caller retries once the device is published.
var ErrNotPublished = errors.New("pipeline: graph not published")

// TopologyError reports a malformed topology description: a dangling
// endpoint reference, an out-of-range port, or a remote node missing from
// the registry. It is fatal to the build or assembly pass it occurs in.
type TopologyError struct {
	Node   topology.NodeID
	Reason string
	Err    error
}

func (e *TopologyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pipeline: node %s: %s: %v", e.Node, e.Reason, e.Err)
	}
	return fmt.Sprintf("pipeline: node %s: %s", e.Node, e.Reason)
}

func (e *TopologyError) Unwrap() error { return e.Err }

// BindError reports a handle that arrived for no discovered node, or a
// second handle for an already-bound node. Both are configuration
// mismatches and abort completion.
type BindError struct {
	Handle string
	Node   topology.NodeID
	Reason string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("pipeline: handle %q (node %s): %s", e.Handle, e.Node, e.Reason)
}

// CommandError reports a remote power, frame-interval or stream command
// that returned a real error. The soft "not implemented" outcome never
// surfaces as a CommandError.
type CommandError struct {
	Entity  string
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("pipeline: %s failed on %q: %v", e.Command, e.Entity, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
