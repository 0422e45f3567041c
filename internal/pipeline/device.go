package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/mediactl/mediagraph/internal/ctxlog"
	"github.com/mediactl/mediagraph/internal/graph"
	"github.com/mediactl/mediagraph/internal/subdev"
	"github.com/mediactl/mediagraph/internal/topology"
)

// Policy carries the per-device activation tuning.
type Policy struct {
	// FixedRate maps subdevice names to a forced frame interval, applied
	// between power-on and stream-on during activation.
	FixedRate map[string]subdev.FrameInterval
	// RollbackOnIntervalFailure reverts power-on when the frame-interval
	// command fails. The historical behavior leaves power on, so the
	// default is false.
	RollbackOnIntervalFailure bool
}

// Device is one composite media device instance. It owns the entity
// registry, the published media device, and the activation state. All
// state lives on the instance; nothing is process-global, so logically
// distinct devices are fully independent.
type Device struct {
	source topology.Source
	policy Policy
	media  *subdev.MediaDevice

	// mu guards the registry and publication state through the
	// discovery-to-completion window, including handle arrivals from
	// independent execution contexts.
	mu        sync.Mutex
	registry  *graph.Registry
	published bool

	// actMu serializes whole-graph activate/deactivate on this device.
	actMu     sync.Mutex
	streaming bool
}

// New returns a device for the given topology source. The device is inert
// until Init discovers the graph and handles start binding.
func New(model string, source topology.Source, policy Policy) *Device {
	return &Device{
		source: source,
		policy: policy,
		media:  subdev.NewMediaDevice(model),
	}
}

// Init prepares the media device and discovers the node graph. A
// resolution failure discards everything partially built and is returned
// as a TopologyError; a graph with no nodes is reported as ErrEmptyGraph
// and leaves the device loaded but unusable.
func (d *Device) Init(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.discover(ctx); err != nil {
		if errors.Is(err, ErrEmptyGraph) {
			logger.Error("No nodes found in graph, device left inert.")
			return err
		}
		logger.Error("Graph parsing failed.", "error", err)
		return err
	}

	logger.Info("Graph discovered.", "nodes", d.registry.Len())
	return nil
}

// Notifier returns the registration channel endpoint for this device. The
// device reference is captured here, at subscribe time; handle arrivals
// carry no global state.
func (d *Device) Notifier() *Notifier {
	return &Notifier{dev: d}
}

// Media returns the published media device.
func (d *Device) Media() *subdev.MediaDevice { return d.media }

// Published reports whether the completion sequence has run.
func (d *Device) Published() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.published
}

// Streaming reports the whole-device streaming flag.
func (d *Device) Streaming() bool {
	d.actMu.Lock()
	defer d.actMu.Unlock()
	return d.streaming
}

// Close tears the device down: the registry is discarded as a whole and
// the media device is withdrawn from external view.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registry = nil
	d.published = false
	d.media.Unregister()
}
