// Package cli parses command-line arguments into an app configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mediactl/mediagraph/internal/app"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated config, a
// boolean indicating the program should exit cleanly (help requested or no
// topology given), or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("mediagraphd", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mediagraphd - composite media pipeline graph daemon.

Usage:
  mediagraphd [options] [TOPOLOGY_PATH]

Arguments:
  TOPOLOGY_PATH
    Path to a single .hcl topology file or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	topoFlag := flagSet.String("topology", "", "Path to the topology file or directory.")
	tFlag := flagSet.String("t", "", "Path to the topology file or directory (shorthand).")
	policyFlag := flagSet.String("policy", "", "Path to the YAML device policy file.")
	listenFlag := flagSet.String("listen", ":8600", "Control surface listen address. Empty disables it.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Log level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *topoFlag != "" {
		path = *topoFlag
	} else if *tFlag != "" {
		path = *tFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn' or 'error'"}
	}

	cfg, err := app.NewConfig(app.Config{
		TopologyPath: path,
		PolicyPath:   *policyFlag,
		ListenAddr:   *listenFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}
