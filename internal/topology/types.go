package topology

// NodeID is the opaque, stable identity of one node in the topology
// description. It is the unique key used to match asynchronously-arriving
// subdevice handles against discovered graph nodes.
type NodeID string

// RootID is the sentinel identity of the owning composite device itself.
// Endpoints whose remote side is the root describe DMA/self links and are
// skipped by the core graph wiring.
const RootID NodeID = ""

// IsRoot reports whether the identity refers to the owning device.
func (id NodeID) IsRoot() bool { return id == RootID }

// String returns a printable form of the identity.
func (id NodeID) String() string {
	if id.IsRoot() {
		return "<root>"
	}
	return string(id)
}

// PadRole is the declared direction of one pad on a node.
type PadRole string

const (
	PadSource PadRole = "source"
	PadSink   PadRole = "sink"
)

// EndpointDecl is an endpoint as written in the topology description: a
// local port connected to a port on a remote node. An absent Remote means
// the owning device.
type EndpointDecl struct {
	LocalPort  int
	Remote     NodeID
	RemotePort int
}

// NodeDecl is the full declaration of one node. Properties carries any
// extra typed attributes from the description, flattened to strings.
type NodeDecl struct {
	ID         NodeID
	Name       string
	ControlURL string
	Pads       []PadRole
	Properties map[string]string
	Endpoints  []EndpointDecl
}

// Endpoint is one resolved connection point on a node, produced on demand
// by a Source. It is transient and not persisted anywhere.
type Endpoint struct {
	LocalPort  int
	RemotePort int
	// Remote is the identity of the peer this endpoint points at, or
	// RootID for the owning device.
	Remote NodeID
	// Sink is derived from the declared role of the local port.
	Sink bool
}

// Source resolves the declared endpoints of a node. Implementations must
// return a finite slice that is rebuilt on every call, so the sequence is
// restartable. A declared endpoint whose remote side cannot be resolved is
// a hard error, not a skip: a dangling reference means the description is
// malformed.
type Source interface {
	EndpointsOf(id NodeID) ([]Endpoint, error)
}
