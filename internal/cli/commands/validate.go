package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logsentinel/logsentinel/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a LogSentinel configuration file without parsing any logs.

Checks:
  - YAML syntax
  - Input and output format names
  - Filter level and log level names
  - Webhook URLs, triggers and timeouts`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Format:    %s\n", cfg.Format)
	fmt.Fprintf(out, "  Output:    %s\n", cfg.Output)
	fmt.Fprintf(out, "  Log level: %s\n", cfg.LogLevel)

	fmt.Fprintf(out, "\nFilters:\n")
	fmt.Fprintf(out, "  Level:          %s\n", orNone(cfg.Filters.Level))
	fmt.Fprintf(out, "  Search:         %s\n", orNone(cfg.Filters.Search))
	fmt.Fprintf(out, "  Case sensitive: %t\n", cfg.Filters.CaseSensitive)
	fmt.Fprintf(out, "  Dedup:          %t\n", cfg.Filters.Dedup)

	if len(cfg.Webhooks) == 0 {
		fmt.Fprintf(out, "\nWebhooks: none\n")
		return nil
	}

	fmt.Fprintf(out, "\nWebhooks:\n")
	for i, wh := range cfg.Webhooks {
		fmt.Fprintf(out, "  %d. [%s] %s (timeout %s)\n", i+1, wh.Trigger, wh.DisplayName(), wh.Timeout)
	}

	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
