package pipeline

import (
	"context"
	"errors"

	"github.com/mediactl/mediagraph/internal/ctxlog"
	"github.com/mediactl/mediagraph/internal/graph"
	"github.com/mediactl/mediagraph/internal/subdev"
)

// softErr maps the "not implemented" outcome to success. Power and stream
// have this escape hatch; the frame-interval override does not.
func softErr(err error) error {
	if errors.Is(err, subdev.ErrNotImplemented) {
		return nil
	}
	return err
}

// Activate powers on and starts streaming on every bound node in registry
// order. It refuses with ErrNotPublished while handles are still binding,
// stops at the first node that fails and returns that node's error; nodes
// already activated by an earlier call (or a shared sub-graph) are left
// untouched. On full success the whole-device streaming flag is raised.
func (d *Device) Activate(ctx context.Context) error {
	d.actMu.Lock()
	defer d.actMu.Unlock()

	reg, err := d.lockedRegistry()
	if err != nil {
		return err
	}

	for _, node := range reg.All() {
		if err := d.activateNode(ctx, node); err != nil {
			return err
		}
	}
	d.streaming = true
	return nil
}

// Deactivate stops streaming and powers off every bound node. Teardown is
// best-effort: the iteration always runs to completion and the first error
// encountered is returned. The whole-device streaming flag is cleared
// regardless.
func (d *Device) Deactivate(ctx context.Context) error {
	d.actMu.Lock()
	defer d.actMu.Unlock()

	reg, err := d.lockedRegistry()
	if err != nil {
		return err
	}

	var firstErr error
	for _, node := range reg.All() {
		if err := d.deactivateNode(ctx, node); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.streaming = false
	return firstErr
}

// lockedRegistry snapshots the registry pointer under the bind-window
// mutex and refuses until the completion sequence has published the
// graph. Handle bindings mutate nodes under d.mu, so observing published
// here orders every binding before any activation read; after that point
// the registry structure is immutable and per-node streaming state is
// serialized by actMu.
func (d *Device) lockedRegistry() (*graph.Registry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registry == nil {
		return nil, ErrEmptyGraph
	}
	if !d.published {
		return nil, ErrNotPublished
	}
	return d.registry, nil
}

// activateNode drives one node from idle to streaming: power-on, the
// optional frame-interval override, then stream-on. An already-streaming
// node is a no-op returning success, which keeps activation idempotent
// when sub-graphs share a node.
func (d *Device) activateNode(ctx context.Context, node *graph.Node) error {
	logger := ctxlog.FromContext(ctx)

	if node.Streaming() {
		return nil
	}
	sd := node.Subdev
	logger.Debug("Starting entity.", "entity", node.Entity.Name)

	if err := softErr(sd.Control.Power(ctx, true)); err != nil {
		return &CommandError{Entity: node.Entity.Name, Command: "power on", Err: err}
	}

	if ival, ok := d.policy.FixedRate[sd.Name]; ok {
		logger.Debug("Applying fixed frame interval.",
			"entity", node.Entity.Name, "numerator", ival.Numerator, "denominator", ival.Denominator)
		if err := sd.Control.SetFrameInterval(ctx, ival); err != nil {
			if d.policy.RollbackOnIntervalFailure {
				if perr := softErr(sd.Control.Power(ctx, false)); perr != nil {
					logger.Error("Power revert failed.", "entity", node.Entity.Name, "error", perr)
				}
			}
			return &CommandError{Entity: node.Entity.Name, Command: "frame interval", Err: err}
		}
	}

	if err := softErr(sd.Control.Stream(ctx, true)); err != nil {
		if perr := softErr(sd.Control.Power(ctx, false)); perr != nil {
			logger.Error("Power revert failed.", "entity", node.Entity.Name, "error", perr)
		}
		return &CommandError{Entity: node.Entity.Name, Command: "stream on", Err: err}
	}

	node.SwapStreaming(true)
	return nil
}

// deactivateNode drives one node back to idle: stream-off, then power-off.
// A stream-off failure keeps the node streaming and skips power-off; a
// power-off failure is reported but the node is already idle by then. An
// idle node is a no-op returning success.
func (d *Device) deactivateNode(ctx context.Context, node *graph.Node) error {
	logger := ctxlog.FromContext(ctx)

	if !node.Streaming() {
		return nil
	}
	sd := node.Subdev
	logger.Debug("Stopping entity.", "entity", node.Entity.Name)

	if err := softErr(sd.Control.Stream(ctx, false)); err != nil {
		return &CommandError{Entity: node.Entity.Name, Command: "stream off", Err: err}
	}
	node.SwapStreaming(false)

	if err := softErr(sd.Control.Power(ctx, false)); err != nil {
		logger.Error("Power off failed.", "entity", node.Entity.Name, "error", err)
		return &CommandError{Entity: node.Entity.Name, Command: "power off", Err: err}
	}
	return nil
}
