package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/logsentinel/logsentinel/pkg/config"
	"github.com/logsentinel/logsentinel/pkg/filter"
	"github.com/logsentinel/logsentinel/pkg/logger"
	"github.com/logsentinel/logsentinel/pkg/model"
	"github.com/logsentinel/logsentinel/pkg/output"
	"github.com/logsentinel/logsentinel/pkg/parser"
	"github.com/logsentinel/logsentinel/pkg/webhook"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Format        string
	Level         string
	Search        string
	CaseSensitive bool
	Dedup         bool
	ErrorsOnly    bool
	Output        string
	Verbose       bool
	Quiet         bool
	FailOnErrors  bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewParseCommand creates the parse command.
func NewParseCommand(globals *GlobalOptions) *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a log export and display its entries",
		Long: `Parse a CloudWatch Logs JSON export and display the entries as a table.

Levels come from a leading [LEVEL] tag in each message. Entries without a
recognized tag are UNKNOWN and are never hidden by --level.

Filters run in this order: --level, --search, --dedup, --errors-only.
Gzip and zstd compressed exports are read transparently.

Exit codes:
  0 - Success (including an export with no entries)
  1 - Invalid arguments, missing file or invalid export
  2 - ERROR or CRITICAL entries displayed with --fail-on-errors`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, globals, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", config.DefaultFormat, "Input format (cloudwatch)")
	cmd.Flags().StringVar(&opts.Level, "level", "", "Minimum level to display (DEBUG|INFO|WARNING|ERROR|CRITICAL)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Only show entries whose message or metadata contains this keyword")
	cmd.Flags().BoolVar(&opts.CaseSensitive, "case-sensitive", false, "Match --search case-sensitively")
	cmd.Flags().BoolVar(&opts.Dedup, "dedup", false, "Drop repeated entries")
	cmd.Flags().BoolVar(&opts.ErrorsOnly, "errors-only", false, "Only show ERROR and CRITICAL entries")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "Output format (table|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Append summary statistics")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no entries")
	cmd.Flags().BoolVar(&opts.FailOnErrors, "fail-on-errors", false, "Exit with code 2 when ERROR or CRITICAL entries are displayed")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnErrors), "When to fire webhook (on_errors|always|never)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, globals *GlobalOptions, opts *ParseOptions) error {
	path := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := globals.LoadConfig(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	opts.applyConfig(cmd, cfg)

	var minLevel model.Level
	if opts.Level != "" {
		minLevel, err = model.ParseThreshold(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid level %s", opts.Level)
		}
	}

	p, err := parser.New(opts.Format)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	hooks, err := collectWebhooks(cfg, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	entries, err := p.ParseFile(path)
	switch {
	case errors.Is(err, parser.ErrNotFound):
		return fmt.Errorf("file %s not found", path)
	case errors.Is(err, parser.ErrFormat):
		return fmt.Errorf("file %s not valid: %w", path, err)
	case err != nil:
		return fmt.Errorf("reading %s: %w", path, err)
	}
	logger.LogParsed(path, p.Name(), len(entries), time.Since(start))

	if len(entries) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No log entries found.")
		return err
	}

	displayed := filter.Apply(entries, opts.filters(minLevel)...)

	var minLevelName string
	if opts.Level != "" {
		minLevelName = minLevel.String()
	}

	report := output.NewReport(entries, displayed, output.Metadata{
		File:   path,
		Format: p.Name(),
		Filters: output.FilterSummary{
			MinLevel:      minLevelName,
			Search:        opts.Search,
			CaseSensitive: opts.CaseSensitive,
			Dedup:         opts.Dedup,
			ErrorsOnly:    opts.ErrorsOnly,
		},
		Duration: time.Since(start),
	})
	logger.LogFiltered(report)

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged but don't fail the run
	for _, d := range webhook.NewClient().SendAll(ctx, report, hooks) {
		logger.LogDelivery(d)
	}

	if opts.FailOnErrors && report.HasErrors() {
		ExitCode = ExitErrorsFound
	}

	return nil
}

// applyConfig fills options the user did not set on the command line from
// the loaded configuration.
func (o *ParseOptions) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = cfg.Format
	}
	if !flags.Changed("output") {
		o.Output = cfg.Output
	}
	if !flags.Changed("level") {
		o.Level = cfg.Filters.Level
	}
	if !flags.Changed("search") {
		o.Search = cfg.Filters.Search
	}
	if !flags.Changed("case-sensitive") {
		o.CaseSensitive = cfg.Filters.CaseSensitive
	}
	if !flags.Changed("dedup") {
		o.Dedup = cfg.Filters.Dedup
	}
}

// filters builds the filter chain in its fixed order.
func (o *ParseOptions) filters(minLevel model.Level) []filter.Filter {
	var chain []filter.Filter
	if o.Level != "" {
		chain = append(chain, filter.NewLevelFilter(minLevel))
	}
	if o.Search != "" {
		chain = append(chain, filter.NewSearchFilter(o.Search, filter.WithCaseSensitive(o.CaseSensitive)))
	}
	if o.Dedup {
		chain = append(chain, filter.NewDedupFilter())
	}
	if o.ErrorsOnly {
		chain = append(chain, filter.ErrorsOnly())
	}
	return chain
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ParseOptions) ([]config.WebhookConfig, error) {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL == "" {
		return webhooks, nil
	}

	trigger, err := config.ParseTrigger(opts.WebhookTrigger)
	if err != nil {
		return nil, err
	}

	cli := config.WebhookConfig{
		Name:    "cli",
		URL:     opts.WebhookURL,
		Token:   opts.WebhookToken,
		Trigger: trigger,
		Timeout: config.DefaultWebhookTimeout,
	}
	if err := config.ValidateWebhook(&cli); err != nil {
		return nil, fmt.Errorf("--webhook-url: %w", err)
	}

	return append(webhooks, cli), nil
}
