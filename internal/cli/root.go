// Package cli provides the command-line interface for LogSentinel.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/logsentinel/logsentinel/internal/cli/commands"
	"github.com/logsentinel/logsentinel/internal/cli/plugins"
	"github.com/logsentinel/logsentinel/pkg/config"
	"github.com/logsentinel/logsentinel/pkg/logger"
)

// Execute runs the root command with the process arguments and returns the exit code.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the CLI with args and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	commands.ExitCode = commands.ExitOK

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// Unknown first argument may be a plugin
	potentialCommand := ""
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		potentialCommand = args[0]
	}
	if potentialCommand != "" && !isBuiltinCommand(rootCmd, potentialCommand) {
		if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
			return plugins.Execute(ctx, pluginPath, args[1:], plugins.Streams{Out: stdout, Err: stderr})
		}
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if potentialCommand != "" && !isBuiltinCommand(rootCmd, potentialCommand) {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(potentialCommand, plugins.List()))
			return commands.ExitError
		}
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return commands.ExitError
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	globals := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "logsentinel",
		Short: "Parse and filter cloud log exports",
		Long: `LogSentinel reads CloudWatch Logs JSON exports, infers each entry's level
from its [LEVEL] tag, and shows the entries you care about.

Filter by minimum level, keyword, duplicates or errors only, render as a
table or JSON, and optionally post the result to webhooks.

CONFIGURATION:
  Defaults can be set in a YAML file passed with --config. The environment
  variables LOGSENTINEL_LEVEL, LOGSENTINEL_OUTPUT and LOGSENTINEL_LOG_LEVEL
  override the file; command-line flags override both.

PLUGINS:
  Plugins are standalone binaries named logsentinel-<command> that are
  automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the logsentinel binary
    2. ~/.logsentinel/plugins/
    3. Anywhere in PATH

  Plugins receive LOGSENTINEL_BIN, the path of this binary. Run
  'logsentinel plugins' to list what is installed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := config.DefaultLogLevel
			if globals.LogLevel != "" {
				level = globals.LogLevel
			} else if env := os.Getenv(config.EnvLogLevel); env != "" {
				level = env
			}
			logger.Setup(level, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&globals.ConfigPath, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&globals.LogLevel, "log-level", "", "Diagnostics level on stderr (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewParseCommand(globals))
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewPluginsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
