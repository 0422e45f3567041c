package topology

import "fmt"

// Map is an in-memory Source built from node declarations. It is the
// backing store for loaded topology files and the fixture of choice in
// tests. A Map is immutable once handed to a consumer; it does no locking.
type Map struct {
	decls map[NodeID]*NodeDecl
	order []NodeID
}

// NewMap returns an empty topology map.
func NewMap() *Map {
	return &Map{decls: make(map[NodeID]*NodeDecl)}
}

// Declare adds a node declaration. Declaring the same identity twice is an
// error; the description must name each node exactly once. The root is
// declared like any other node, under RootID.
func (m *Map) Declare(d *NodeDecl) error {
	if _, exists := m.decls[d.ID]; exists {
		return fmt.Errorf("topology: node %s declared twice", d.ID)
	}
	m.decls[d.ID] = d
	m.order = append(m.order, d.ID)
	return nil
}

// Decl returns the declaration for the given identity.
func (m *Map) Decl(id NodeID) (*NodeDecl, bool) {
	d, ok := m.decls[id]
	return d, ok
}

// Decls returns all non-root declarations in declaration order.
func (m *Map) Decls() []*NodeDecl {
	out := make([]*NodeDecl, 0, len(m.order))
	for _, id := range m.order {
		if id.IsRoot() {
			continue
		}
		out = append(out, m.decls[id])
	}
	return out
}

// EndpointsOf resolves the declared endpoints of the given node. The slice
// is rebuilt on every call. A remote identity that is neither the root nor
// a declared node fails the whole resolution.
func (m *Map) EndpointsOf(id NodeID) ([]Endpoint, error) {
	decl, ok := m.decls[id]
	if !ok {
		return nil, fmt.Errorf("topology: node %s not declared", id)
	}

	eps := make([]Endpoint, 0, len(decl.Endpoints))
	for _, ep := range decl.Endpoints {
		if !ep.Remote.IsRoot() {
			if _, ok := m.decls[ep.Remote]; !ok {
				return nil, fmt.Errorf("topology: endpoint %s:%d references undeclared node %s",
					id, ep.LocalPort, ep.Remote)
			}
		}
		sink := ep.LocalPort >= 0 && ep.LocalPort < len(decl.Pads) &&
			decl.Pads[ep.LocalPort] == PadSink
		eps = append(eps, Endpoint{
			LocalPort:  ep.LocalPort,
			RemotePort: ep.RemotePort,
			Remote:     ep.Remote,
			Sink:       sink,
		})
	}
	return eps, nil
}
