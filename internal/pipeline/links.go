package pipeline

import (
	"context"
	"fmt"

	"github.com/mediactl/mediagraph/internal/ctxlog"
	"github.com/mediactl/mediagraph/internal/graph"
)

// assembleLinks wires the pad-to-pad links for every node, in registry
// order. The first failure aborts the pass; links already created stay in
// place, there is no rollback at this layer. Caller holds d.mu.
func (d *Device) assembleLinks(ctx context.Context) error {
	for _, node := range d.registry.All() {
		if err := d.buildNodeLinks(ctx, node); err != nil {
			return err
		}
	}
	return nil
}

// buildNodeLinks creates the outbound links declared by one node. Sink
// endpoints are skipped (the source side of the link creates it) and so
// are endpoints pointing back at the owning device, which are DMA links
// handled outside the core wiring.
func (d *Device) buildNodeLinks(ctx context.Context, node *graph.Node) error {
	logger := ctxlog.FromContext(ctx)

	if !node.Bound() {
		return &TopologyError{Node: node.ID, Reason: "link assembly before handle bound"}
	}
	local := node.Entity

	eps, err := d.source.EndpointsOf(node.ID)
	if err != nil {
		return &TopologyError{Node: node.ID, Reason: "endpoint resolution failed", Err: err}
	}

	for _, ep := range eps {
		if ep.LocalPort < 0 || ep.LocalPort >= len(local.Pads) {
			return &TopologyError{Node: node.ID,
				Reason: fmt.Sprintf("invalid local port %d on %q", ep.LocalPort, local.Name)}
		}
		if ep.Sink {
			continue
		}
		if ep.Remote.IsRoot() {
			continue
		}

		remote := d.registry.FindByID(ep.Remote)
		if remote == nil {
			// Cannot happen after a correct build, checked anyway.
			return &TopologyError{Node: node.ID,
				Reason: fmt.Sprintf("no entity found for remote node %s", ep.Remote)}
		}
		if ep.RemotePort < 0 || ep.RemotePort >= len(remote.Entity.Pads) {
			return &TopologyError{Node: ep.Remote,
				Reason: fmt.Sprintf("invalid remote port %d on %q", ep.RemotePort, remote.Entity.Name)}
		}

		if _, err := d.media.CreateLink(local, ep.LocalPort, remote.Entity, ep.RemotePort); err != nil {
			return &TopologyError{Node: node.ID, Reason: "link creation failed", Err: err}
		}
		logger.Debug("Created link.",
			"source", local.Name, "source_pad", ep.LocalPort,
			"sink", remote.Entity.Name, "sink_pad", ep.RemotePort)
	}
	return nil
}
