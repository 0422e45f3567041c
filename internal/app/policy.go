package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mediactl/mediagraph/internal/pipeline"
	"github.com/mediactl/mediagraph/internal/subdev"
)

// policyFile is the YAML shape of the device policy.
type policyFile struct {
	Model                     string                          `yaml:"model"`
	RollbackOnIntervalFailure bool                            `yaml:"rollback_on_interval_failure"`
	FixedRate                 map[string]subdev.FrameInterval `yaml:"fixed_rate"`
}

const defaultModel = "Video Composite Device"

// loadPolicy reads the policy file, falling back to defaults when no path
// is configured. Fixed-rate entries are keyed by the subdevice name as
// reported by the handle, not by the disambiguated entity name.
func loadPolicy(path string) (string, pipeline.Policy, error) {
	if path == "" {
		return defaultModel, pipeline.Policy{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", pipeline.Policy{}, fmt.Errorf("reading policy file: %w", err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return "", pipeline.Policy{}, fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	for name, ival := range pf.FixedRate {
		if ival.Denominator == 0 {
			return "", pipeline.Policy{}, fmt.Errorf("policy: fixed rate for %q has zero denominator", name)
		}
	}

	model := pf.Model
	if model == "" {
		model = defaultModel
	}
	return model, pipeline.Policy{
		FixedRate:                 pf.FixedRate,
		RollbackOnIntervalFailure: pf.RollbackOnIntervalFailure,
	}, nil
}
