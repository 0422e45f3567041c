package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mediactl/mediagraph/internal/ctxlog"
	"github.com/mediactl/mediagraph/internal/subdev"
	"github.com/mediactl/mediagraph/internal/topology"
)

// quietCtx returns a context whose logger discards everything, keeping
// test output readable.
func quietCtx() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

// fakeControl is a scripted subdev.Control that records every command it
// receives in order.
type fakeControl struct {
	mu    sync.Mutex
	calls []string

	powerOnErr   error
	powerOffErr  error
	intervalErr  error
	streamOnErr  error
	streamOffErr error
}

func (c *fakeControl) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeControl) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *fakeControl) Power(_ context.Context, on bool) error {
	if on {
		c.record("power on")
		return c.powerOnErr
	}
	c.record("power off")
	return c.powerOffErr
}

func (c *fakeControl) SetFrameInterval(_ context.Context, _ subdev.FrameInterval) error {
	c.record("frame interval")
	return c.intervalErr
}

func (c *fakeControl) Stream(_ context.Context, on bool) error {
	if on {
		c.record("stream on")
		return c.streamOnErr
	}
	c.record("stream off")
	return c.streamOffErr
}

// sensorTopology builds the reference fixture: the root fans out to two
// sensors, the second sensor feeds a bridge, and both the sensors and the
// bridge declare their return endpoints so sink-side and root-directed
// skipping is exercised.
func sensorTopology(t *testing.T) *topology.Map {
	t.Helper()
	m := topology.NewMap()

	require.NoError(t, m.Declare(&topology.NodeDecl{
		ID: topology.RootID,
		Endpoints: []topology.EndpointDecl{
			{LocalPort: 0, Remote: "sensor_a", RemotePort: 0},
			{LocalPort: 1, Remote: "sensor_b", RemotePort: 0},
		},
	}))
	require.NoError(t, m.Declare(&topology.NodeDecl{
		ID:   "sensor_a",
		Name: "IMX274",
		Pads: []topology.PadRole{topology.PadSource},
		Endpoints: []topology.EndpointDecl{
			{LocalPort: 0, Remote: topology.RootID, RemotePort: 0},
		},
	}))
	require.NoError(t, m.Declare(&topology.NodeDecl{
		ID:   "sensor_b",
		Name: "IMX274",
		Pads: []topology.PadRole{topology.PadSource},
		Endpoints: []topology.EndpointDecl{
			{LocalPort: 0, Remote: "bridge", RemotePort: 0},
		},
	}))
	require.NoError(t, m.Declare(&topology.NodeDecl{
		ID:   "bridge",
		Name: "CSI Bridge",
		Pads: []topology.PadRole{topology.PadSink, topology.PadSource},
		Endpoints: []topology.EndpointDecl{
			{LocalPort: 0, Remote: "sensor_b", RemotePort: 0},
			{LocalPort: 1, Remote: topology.RootID, RemotePort: 1},
		},
	}))
	return m
}

// newHandle builds a live handle for a declared node with the given fake
// control.
func newHandle(t *testing.T, m *topology.Map, id topology.NodeID, control subdev.Control) *subdev.Subdev {
	t.Helper()
	decl, ok := m.Decl(id)
	require.True(t, ok, "node %s not declared", id)

	pads := make([]subdev.Pad, len(decl.Pads))
	for i, role := range decl.Pads {
		pads[i] = subdev.Pad{Index: i, Sink: role == topology.PadSink}
	}
	return &subdev.Subdev{
		Name:    decl.Name,
		Node:    decl.ID,
		Entity:  &subdev.Entity{Name: decl.Name, Pads: pads},
		Control: control,
	}
}

// newTestSubdev builds a minimal handle with a single source pad, for
// fixtures that bypass the topology map.
func newTestSubdev(name string, id topology.NodeID) *subdev.Subdev {
	return &subdev.Subdev{
		Name:    name,
		Node:    id,
		Entity:  &subdev.Entity{Name: name, Pads: []subdev.Pad{{Index: 0}}},
		Control: &fakeControl{},
	}
}

// bindAll initializes the device and binds one handle per declared node,
// returning the fake control of each. The last binding triggers the
// completion sequence.
func bindAll(t *testing.T, ctx context.Context, dev *Device, m *topology.Map) map[topology.NodeID]*fakeControl {
	t.Helper()
	require.NoError(t, dev.Init(ctx))

	notifier := dev.Notifier()
	controls := make(map[topology.NodeID]*fakeControl)
	for _, decl := range m.Decls() {
		control := &fakeControl{}
		controls[decl.ID] = control
		require.NoError(t, notifier.Bound(ctx, newHandle(t, m, decl.ID, control)))
	}
	return controls
}
