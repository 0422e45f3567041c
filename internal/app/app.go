// Package app wires one composite device instance together: logger,
// topology loading, device policy, the asynchronous handle feed, and the
// HTTP control surface.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mediactl/mediagraph/internal/ctxlog"
	"github.com/mediactl/mediagraph/internal/pipeline"
	"github.com/mediactl/mediagraph/internal/subdev"
	"github.com/mediactl/mediagraph/internal/subdevhttp"
	"github.com/mediactl/mediagraph/internal/topohcl"
	"github.com/mediactl/mediagraph/internal/topology"
)

const controlTimeout = 10 * time.Second

// App encapsulates one device instance and its collaborators.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config
	topo   *topology.Map
	device *pipeline.Device
}

// New constructs the application: logger, topology map, policy and the
// composite device. It does not start anything yet.
func New(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	topo, err := topohcl.Load(ctx, cfg.TopologyPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("Topology description loaded.", "devices", len(topo.Decls()))

	model, policy, err := loadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}

	return &App{
		outW:   outW,
		logger: logger,
		cfg:    cfg,
		topo:   topo,
		device: pipeline.New(model, topo, policy),
	}, nil
}

// Device returns the composite device. Primarily for tests.
func (a *App) Device() *pipeline.Device { return a.device }

// Run initializes the device, feeds it the declared subdevice handles and
// serves the control surface until the context is cancelled. An empty
// graph leaves the device loaded but inert, mirroring a device that stays
// probed for inspection after a miswired topology.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	inert := false
	if err := a.device.Init(ctx); err != nil {
		if !errors.Is(err, pipeline.ErrEmptyGraph) {
			return err
		}
		inert = true
	}

	if !inert {
		a.feedHandles(ctx)
	}

	if a.cfg.ListenAddr != "" {
		return a.serveControl(ctx)
	}
	<-ctx.Done()
	return nil
}

// feedHandles delivers one handle per declared device to the notifier.
// Deliveries run concurrently to mirror the real registration channel,
// where arrival order is not under this system's control.
func (a *App) feedHandles(ctx context.Context) {
	notifier := a.device.Notifier()

	for _, decl := range a.topo.Decls() {
		go func(decl *topology.NodeDecl) {
			sd := newSubdev(decl)
			if err := notifier.Bound(ctx, sd); err != nil {
				a.logger.Error("Handle binding failed.", "handle", sd.Name, "error", err)
			}
		}(decl)
	}
}

// newSubdev builds the live handle for one declared device: the media
// entity from the declared pads and properties, and an HTTP control
// client, or the unimplemented control when no URL is declared.
func newSubdev(decl *topology.NodeDecl) *subdev.Subdev {
	pads := make([]subdev.Pad, len(decl.Pads))
	for i, role := range decl.Pads {
		pads[i] = subdev.Pad{Index: i, Sink: role == topology.PadSink}
	}

	var control subdev.Control = subdev.Unimplemented{}
	if decl.ControlURL != "" {
		control = subdevhttp.New(decl.ControlURL, controlTimeout)
	}

	return &subdev.Subdev{
		Name: decl.Name,
		Node: decl.ID,
		Entity: &subdev.Entity{
			Name:         decl.Name,
			Pads:         pads,
			Capabilities: decl.Properties,
		},
		Control: control,
	}
}
