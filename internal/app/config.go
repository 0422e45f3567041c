package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	TopologyPath string // .hcl file or directory
	PolicyPath   string // optional YAML policy file
	ListenAddr   string // control surface address, empty disables it

	LogFormat string
	LogLevel  string
}

// NewConfig validates a config. The topology path is the only required
// field.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TopologyPath == "" {
		return nil, errors.New("TopologyPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
