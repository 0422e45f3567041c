package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declareFixture(t *testing.T) *Map {
	t.Helper()
	m := NewMap()
	require.NoError(t, m.Declare(&NodeDecl{
		ID: RootID,
		Endpoints: []EndpointDecl{
			{LocalPort: 0, Remote: "sensor"},
		},
	}))
	require.NoError(t, m.Declare(&NodeDecl{
		ID:   "sensor",
		Name: "Sensor",
		Pads: []PadRole{PadSink, PadSource},
		Endpoints: []EndpointDecl{
			{LocalPort: 0, Remote: RootID},
			{LocalPort: 1, Remote: "bridge", RemotePort: 0},
		},
	}))
	require.NoError(t, m.Declare(&NodeDecl{
		ID:   "bridge",
		Name: "Bridge",
		Pads: []PadRole{PadSink},
	}))
	return m
}

func TestDeclareRejectsDuplicates(t *testing.T) {
	m := NewMap()
	require.NoError(t, m.Declare(&NodeDecl{ID: "a"}))
	err := m.Declare(&NodeDecl{ID: "a"})
	assert.ErrorContains(t, err, "declared twice")
}

func TestDeclsExcludesRoot(t *testing.T) {
	m := declareFixture(t)
	decls := m.Decls()
	require.Len(t, decls, 2)
	assert.Equal(t, NodeID("sensor"), decls[0].ID)
	assert.Equal(t, NodeID("bridge"), decls[1].ID)
}

func TestEndpointsOfDerivesDirection(t *testing.T) {
	m := declareFixture(t)

	eps, err := m.EndpointsOf("sensor")
	require.NoError(t, err)
	require.Len(t, eps, 2)

	// Port 0 is declared a sink pad, port 1 a source pad.
	assert.True(t, eps[0].Sink)
	assert.True(t, eps[0].Remote.IsRoot())
	assert.False(t, eps[1].Sink)
	assert.Equal(t, NodeID("bridge"), eps[1].Remote)
}

func TestEndpointsOfIsRestartable(t *testing.T) {
	m := declareFixture(t)

	first, err := m.EndpointsOf("sensor")
	require.NoError(t, err)
	second, err := m.EndpointsOf("sensor")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEndpointsOfUnknownNode(t *testing.T) {
	m := declareFixture(t)
	_, err := m.EndpointsOf("ghost")
	assert.ErrorContains(t, err, "not declared")
}

func TestEndpointsOfDanglingRemote(t *testing.T) {
	m := NewMap()
	require.NoError(t, m.Declare(&NodeDecl{
		ID:        "sensor",
		Pads:      []PadRole{PadSource},
		Endpoints: []EndpointDecl{{LocalPort: 0, Remote: "ghost"}},
	}))

	_, err := m.EndpointsOf("sensor")
	assert.ErrorContains(t, err, "undeclared node")
}

func TestNodeIDString(t *testing.T) {
	assert.Equal(t, "<root>", RootID.String())
	assert.Equal(t, "sensor", NodeID("sensor").String())
	assert.True(t, RootID.IsRoot())
	assert.False(t, NodeID("sensor").IsRoot())
}
