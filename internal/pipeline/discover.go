package pipeline

import (
	"context"

	"github.com/mediactl/mediagraph/internal/ctxlog"
	"github.com/mediactl/mediagraph/internal/graph"
	"github.com/mediactl/mediagraph/internal/topology"
)

// discover walks the topology from the root and registers every reachable
// node: transitive closure over the "has an endpoint pointing to" relation.
// It runs over an explicit work queue; a node is queued exactly once, when
// it is first inserted. Any endpoint-resolution failure aborts the whole
// build and nothing partially built survives. Caller holds d.mu.
func (d *Device) discover(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	reg := graph.New()
	queue := []topology.NodeID{topology.RootID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		eps, err := d.source.EndpointsOf(id)
		if err != nil {
			return &TopologyError{Node: id, Reason: "endpoint resolution failed", Err: err}
		}

		for _, ep := range eps {
			if ep.Remote.IsRoot() {
				continue
			}
			if reg.FindByID(ep.Remote) != nil {
				continue
			}
			reg.InsertIfAbsent(ep.Remote)
			queue = append(queue, ep.Remote)
			logger.Debug("Discovered graph node.", "node", ep.Remote, "via", id)
		}
	}

	if reg.Len() == 0 {
		return ErrEmptyGraph
	}

	d.registry = reg
	return nil
}
