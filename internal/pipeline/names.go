package pipeline

import (
	"context"
	"fmt"

	"github.com/mediactl/mediagraph/internal/ctxlog"
)

// disambiguateNames gives every entity whose display name occurs more than
// once an ordinal suffix, in discovery order, so that name lookups on the
// published graph stay unambiguous. The counters are scoped to this pass.
// Caller holds d.mu.
func (d *Device) disambiguateNames(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	occurrences := make(map[string]int)
	for _, node := range d.registry.All() {
		occurrences[node.Entity.Name]++
	}

	assigned := make(map[string]int)
	for _, node := range d.registry.All() {
		name := node.Entity.Name
		if occurrences[name] < 2 {
			continue
		}
		node.Entity.Name = fmt.Sprintf("%s_%d", name, assigned[name])
		assigned[name]++
		logger.Debug("Renamed duplicate entity.", "from", name, "to", node.Entity.Name)
	}
}
