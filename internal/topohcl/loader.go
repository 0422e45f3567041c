// Package topohcl loads topology descriptions from HCL files into an
// in-memory topology map. A description consists of one root block naming
// the owning device's own endpoints and any number of device blocks, each
// declaring its pads, its control endpoint and its outbound endpoints.
package topohcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/mediactl/mediagraph/internal/ctxlog"
	"github.com/mediactl/mediagraph/internal/fsutil"
	"github.com/mediactl/mediagraph/internal/topology"
)

// fileRoot decodes the top-level blocks of one topology file.
type fileRoot struct {
	Root    *rootBlock     `hcl:"root,block"`
	Devices []*deviceBlock `hcl:"device,block"`
}

type rootBlock struct {
	Endpoints []*endpointBlock `hcl:"endpoint,block"`
}

type deviceBlock struct {
	Label      string           `hcl:"label,label"`
	Name       string           `hcl:"name"`
	ControlURL string           `hcl:"control_url,optional"`
	Pads       []string         `hcl:"pads,optional"`
	Endpoints  []*endpointBlock `hcl:"endpoint,block"`
	Remain     hcl.Body         `hcl:",remain"`
}

type endpointBlock struct {
	Port       int     `hcl:"port"`
	Remote     *string `hcl:"remote,optional"`
	RemotePort int     `hcl:"remote_port,optional"`
}

// Load parses the topology description at path, which may be a single
// .hcl file or a directory of them, and returns the assembled map. The
// root block must appear exactly once across all files.
func Load(ctx context.Context, path string) (*topology.Map, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("topohcl: no .hcl files found at %s", path)
	}
	logger.Debug("Discovered topology files.", "count", len(files))

	parser := hclparse.NewParser()
	m := topology.NewMap()
	rootSeen := false

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("topohcl: parsing %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("topohcl: decoding %s: %w", file, diags)
		}

		if root.Root != nil {
			if rootSeen {
				return nil, fmt.Errorf("topohcl: duplicate root block in %s", file)
			}
			rootSeen = true
			if err := m.Declare(&topology.NodeDecl{
				ID:        topology.RootID,
				Endpoints: translateEndpoints(root.Root.Endpoints),
			}); err != nil {
				return nil, err
			}
		}

		for _, dev := range root.Devices {
			decl, err := translateDevice(dev)
			if err != nil {
				return nil, fmt.Errorf("topohcl: device %q in %s: %w", dev.Label, file, err)
			}
			if err := m.Declare(decl); err != nil {
				return nil, err
			}
			logger.Debug("Declared device node.", "node", decl.ID, "name", decl.Name)
		}
	}

	if !rootSeen {
		return nil, fmt.Errorf("topohcl: no root block found at %s", path)
	}
	return m, nil
}

// translateDevice converts one decoded device block into a node
// declaration, flattening any extra attributes into string properties.
func translateDevice(dev *deviceBlock) (*topology.NodeDecl, error) {
	pads := make([]topology.PadRole, 0, len(dev.Pads))
	for i, role := range dev.Pads {
		switch topology.PadRole(role) {
		case topology.PadSource, topology.PadSink:
			pads = append(pads, topology.PadRole(role))
		default:
			return nil, fmt.Errorf("pad %d has unknown role %q", i, role)
		}
	}

	props, err := translateProperties(dev.Remain)
	if err != nil {
		return nil, err
	}

	return &topology.NodeDecl{
		ID:         topology.NodeID(dev.Label),
		Name:       dev.Name,
		ControlURL: dev.ControlURL,
		Pads:       pads,
		Properties: props,
		Endpoints:  translateEndpoints(dev.Endpoints),
	}, nil
}

// translateProperties evaluates the leftover attributes of a device block
// and converts each value to a string. Attribute order in HCL is not
// meaningful, so keys are processed sorted for stable diagnostics.
func translateProperties(remain hcl.Body) (map[string]string, error) {
	if remain == nil {
		return nil, nil
	}
	attrs, diags := remain.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("reading properties: %w", diags)
	}
	if len(attrs) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make(map[string]string, len(attrs))
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating property %q: %w", name, diags)
		}
		strVal, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("property %q is not convertible to string: %w", name, err)
		}
		props[name] = strVal.AsString()
	}
	return props, nil
}

func translateEndpoints(blocks []*endpointBlock) []topology.EndpointDecl {
	eps := make([]topology.EndpointDecl, 0, len(blocks))
	for _, b := range blocks {
		remote := topology.RootID
		if b.Remote != nil {
			remote = topology.NodeID(*b.Remote)
		}
		eps = append(eps, topology.EndpointDecl{
			LocalPort:  b.Port,
			Remote:     remote,
			RemotePort: b.RemotePort,
		})
	}
	return eps
}
