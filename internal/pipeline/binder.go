package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/mediactl/mediagraph/internal/ctxlog"
	"github.com/mediactl/mediagraph/internal/subdev"
)

// Notifier is the inbound end of the handle registration channel for one
// device. Each asynchronously-arriving handle is delivered as a discrete
// Bound event; delivery order is outside this system's control and need
// not match discovery order. Events are serialized on the device mutex.
type Notifier struct {
	dev *Device
}

// Bound matches an arriving handle against the discovered graph nodes and
// stores it on the matching node. An unmatched identity and a duplicate
// binding are both hard errors that leave existing bindings untouched.
// When the last expected handle arrives, the completion sequence runs
// before Bound returns.
func (n *Notifier) Bound(ctx context.Context, sd *subdev.Subdev) error {
	logger := ctxlog.FromContext(ctx)
	d := n.dev

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.registry == nil {
		return &BindError{Handle: sd.Name, Node: sd.Node, Reason: "no graph discovered"}
	}

	node := d.registry.FindByID(sd.Node)
	if node == nil {
		return &BindError{Handle: sd.Name, Node: sd.Node, Reason: "no entity found for handle"}
	}
	if node.Bound() {
		return &BindError{Handle: sd.Name, Node: sd.Node, Reason: "duplicate handle for node"}
	}

	node.Entity = sd.Entity
	node.Subdev = sd
	logger.Debug("Subdevice bound.", "handle", sd.Name, "node", sd.Node)

	if d.registry.BoundCount() == d.registry.Len() {
		return d.complete(ctx)
	}
	return nil
}

// complete runs once all expected handles have arrived: duplicate names
// are disambiguated, links are assembled, handles are made addressable and
// the media device is registered, in that order. Any failure aborts before
// the later steps run. Caller holds d.mu.
func (d *Device) complete(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("All subdevices bound, completing graph assembly.")

	d.disambiguateNames(ctx)

	if err := d.assembleLinks(ctx); err != nil {
		logger.Error("Link assembly failed.", "error", err)
		return err
	}

	for _, node := range d.registry.All() {
		if node.Subdev.Token == uuid.Nil {
			node.Subdev.Token = uuid.New()
		}
		d.media.AddEntity(node.Entity)
	}

	if err := d.media.Register(); err != nil {
		logger.Error("Media device registration failed.", "error", err)
		return err
	}

	d.published = true
	logger.Info("Pipeline graph published.",
		"entities", len(d.media.Entities()), "links", len(d.media.Links()))
	return nil
}
