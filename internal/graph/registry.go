package graph

import (
	"github.com/mediactl/mediagraph/internal/subdev"
	"github.com/mediactl/mediagraph/internal/topology"
)

// Node is one discovered peer in the pipeline graph. ID is immutable from
// creation; Entity and Subdev are populated exactly once when the matching
// handle binds. The streaming flag is owned by the activation controller.
type Node struct {
	ID     topology.NodeID
	Entity *subdev.Entity
	Subdev *subdev.Subdev

	streaming bool
}

// Bound reports whether the node has its runtime handle.
func (n *Node) Bound() bool { return n.Subdev != nil }

// Streaming reports whether the node currently holds power and stream
// resources.
func (n *Node) Streaming() bool { return n.streaming }

// SwapStreaming records the new streaming status and returns the previous
// one.
func (n *Node) SwapStreaming(on bool) bool {
	prev := n.streaming
	n.streaming = on
	return prev
}

// Registry is the set of discovered nodes. Identities are unique and
// insertion order is preserved; later passes iterate in that order. There
// is no removal: the whole registry is discarded on teardown.
type Registry struct {
	nodes []*Node
	byID  map[topology.NodeID]*Node
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[topology.NodeID]*Node)}
}

// InsertIfAbsent returns the node for the given identity, creating and
// appending it if it does not exist yet. Discovery is idempotent: however
// many endpoints reference an identity, it is inserted at most once.
func (r *Registry) InsertIfAbsent(id topology.NodeID) *Node {
	if n, ok := r.byID[id]; ok {
		return n
	}
	n := &Node{ID: id}
	r.byID[id] = n
	r.nodes = append(r.nodes, n)
	return n
}

// FindByID returns the node with the given identity, or nil.
func (r *Registry) FindByID(id topology.NodeID) *Node {
	return r.byID[id]
}

// FindByHandle returns the node bound to the given handle, or nil.
func (r *Registry) FindByHandle(sd *subdev.Subdev) *Node {
	for _, n := range r.nodes {
		if n.Subdev == sd {
			return n
		}
	}
	return nil
}

// All returns the nodes in insertion order.
func (r *Registry) All() []*Node {
	out := make([]*Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int { return len(r.nodes) }

// BoundCount returns the number of nodes with a bound handle.
func (r *Registry) BoundCount() int {
	count := 0
	for _, n := range r.nodes {
		if n.Bound() {
			count++
		}
	}
	return count
}
