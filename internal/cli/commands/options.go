package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/logsentinel/logsentinel/pkg/config"
	"github.com/logsentinel/logsentinel/pkg/logger"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitErrorsFound = 2
)

// GlobalOptions holds the root command's persistent flags.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

// LoadConfig loads the --config file, or defaults when none was given, and
// applies the effective diagnostics level. --log-level wins over the config.
func (g *GlobalOptions) LoadConfig(ctx context.Context, stderr io.Writer) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(ctx, g.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	logger.Setup(level, stderr)

	return cfg, nil
}
