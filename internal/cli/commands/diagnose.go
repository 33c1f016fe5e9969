package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/logsentinel/logsentinel/pkg/model"
	"github.com/logsentinel/logsentinel/pkg/output"
	"github.com/logsentinel/logsentinel/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <export-file>",
		Short: "Diagnose common problems with a log export",
		Long: `Diagnose common problems with a CloudWatch log export.

This command checks an export for problems that would make parse fail or
produce surprising results:
- File existence and compression
- JSON structure and the logEvents array
- Level tag coverage, including near-miss tags such as [error] or [WARN]
  that stay UNKNOWN because tags are matched exactly
- Request ID coverage and timestamp ordering

Example:
  logsentinel diagnose export.json
  logsentinel diagnose -v export.json.gz  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := diagnoseExport(args[0], opts)
			printDiagnostics(cmd.OutOrStdout(), results, opts)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func diagnoseExport(path string, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	// 1. Check file existence
	result := checkExportExists(path)
	results = append(results, result)
	if result.Status == StatusError {
		return results
	}

	// 2. Decode and parse
	entries, result := checkExportParseable(path)
	results = append(results, result)
	if result.Status == StatusError {
		return results
	}

	if len(entries) == 0 {
		return append(results, DiagnosticResult{
			Check:    "Log Events",
			Status:   StatusWarning,
			Message:  "Export contains no log events",
			Suggests: []string{"Check the time range used when exporting from CloudWatch"},
		})
	}

	// 3. Level tags
	results = append(results, checkLevelTags(entries, opts))

	// 4. Request IDs
	results = append(results, checkRequestIDs(entries))

	// 5. START without END
	results = append(results, checkRequestLifecycle(entries))

	// 6. Timestamps
	results = append(results, checkTimestamps(entries))

	return results
}

func checkExportExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Export File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Export file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access export file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Path is a directory, not a file: %s", path)
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("Found (%d bytes, %s)", info.Size(), detectFileCompression(path))
	return result
}

func detectFileCompression(path string) parser.Compression {
	f, err := os.Open(path) // #nosec G304 -- user-provided export path is expected
	if err != nil {
		return parser.CompressionNone
	}
	defer f.Close()

	head := make([]byte, 4)
	n, _ := io.ReadFull(f, head)
	return parser.DetectCompression(head[:n])
}

func checkExportParseable(path string) ([]model.Entry, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Export Structure",
	}

	entries, err := parser.NewCloudWatchParser().ParseFile(path)
	if err != nil {
		result.Status = StatusError
		result.Message = "Export is not a valid CloudWatch JSON export"
		result.Details = []string{err.Error()}
		result.Suggests = []string{
			`The top level must be an object with a "logEvents" array`,
			`Every event needs an integer "timestamp" (ms since epoch) and a string "message"`,
			"The file must be UTF-8, optionally gzip or zstd compressed",
		}
		return nil, result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("%d log events", len(entries))
	if len(entries) > 0 {
		result.Details = []string{fmt.Sprintf("Source: %s", entries[0].Source())}
		if entries[0].Source() == model.UnknownSource {
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("%d log events, no logGroupName", len(entries))
			result.Suggests = []string{`Entries will show source "unknown"`}
		}
	}
	return entries, result
}

func checkLevelTags(entries []model.Entry, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Level Tags",
	}

	summary := output.Summarize(len(entries), entries)
	tagged := len(entries) - summary.ByLevel[model.LevelUnknown.String()]

	nearMiss := map[string]int{}
	for _, e := range entries {
		if e.Level() != model.LevelUnknown {
			continue
		}
		tag, ok := parser.LevelTag(e.Message())
		if !ok || tag == model.LevelUnknown.String() {
			continue
		}
		if _, err := model.ParseLevel(tag); err == nil || isAbbreviation(tag) {
			nearMiss[tag]++
		}
	}

	result.Message = fmt.Sprintf("%d of %d entries have a level tag (%.0f%%)",
		tagged, len(entries), float64(tagged)*100/float64(len(entries)))

	if opts.Verbose {
		for _, l := range model.Levels() {
			if n := summary.ByLevel[l.String()]; n > 0 {
				result.Details = append(result.Details, fmt.Sprintf("%s: %d", l, n))
			}
		}
	}

	if len(nearMiss) == 0 {
		result.Status = StatusOK
		return result
	}

	tags := make([]string, 0, len(nearMiss))
	for tag := range nearMiss {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	result.Status = StatusWarning
	for _, tag := range tags {
		result.Details = append(result.Details, fmt.Sprintf("[%s] used %d time(s), treated as UNKNOWN", tag, nearMiss[tag]))
	}
	result.Suggests = []string{
		"Tags are matched exactly: use [DEBUG], [INFO], [WARNING], [ERROR] or [CRITICAL]",
		"UNKNOWN entries are always shown by --level but never count as errors",
	}
	return result
}

var levelAbbreviations = map[string]bool{
	"WARN": true, "warn": true, "ERR": true, "err": true,
	"CRIT": true, "crit": true, "FATAL": true, "fatal": true,
	"DBG": true, "dbg": true, "TRACE": true, "trace": true,
}

func isAbbreviation(tag string) bool {
	return levelAbbreviations[tag]
}

func checkRequestIDs(entries []model.Entry) DiagnosticResult {
	withID := 0
	ids := map[string]struct{}{}
	for _, e := range entries {
		if id, ok := e.RequestID(); ok {
			withID++
			ids[id] = struct{}{}
		}
	}

	return DiagnosticResult{
		Check:   "Request IDs",
		Status:  StatusOK,
		Message: fmt.Sprintf("%d of %d entries carry a request ID (%d distinct)", withID, len(entries), len(ids)),
	}
}

// openRequest is a request whose START line has no matching END yet.
type openRequest struct {
	id      string
	started time.Time
	index   int
}

func checkRequestLifecycle(entries []model.Entry) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Request Lifecycle",
	}

	open := map[string]openRequest{}
	started := 0
	for i, e := range entries {
		id, ok := e.RequestID()
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(e.Message(), "START "):
			started++
			open[id] = openRequest{id: id, started: e.Timestamp(), index: i}
		case strings.HasPrefix(e.Message(), "END "):
			delete(open, id)
		}
	}

	if len(open) == 0 {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("%d request(s) started, all ended", started)
		return result
	}

	pending := make([]openRequest, 0, len(open))
	for _, r := range open {
		pending = append(pending, r)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].index < pending[j].index })

	result.Status = StatusWarning
	result.Message = fmt.Sprintf("%d of %d request(s) started without an END line", len(pending), started)
	for _, r := range pending {
		result.Details = append(result.Details, fmt.Sprintf("%s started %s (event %d)",
			r.id, r.started.Format(output.TimestampLayout), r.index))
	}
	result.Suggests = []string{
		"The invocation may have timed out or crashed, or the export ends mid-request",
	}
	return result
}

func checkTimestamps(entries []model.Entry) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Timestamps",
	}

	first, last := entries[0].Timestamp(), entries[0].Timestamp()
	outOfOrder := 0
	for i, e := range entries {
		ts := e.Timestamp()
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
		if i > 0 && ts.Before(entries[i-1].Timestamp()) {
			outOfOrder++
		}
	}

	result.Details = []string{
		fmt.Sprintf("First: %s", first.Format(output.TimestampLayout)),
		fmt.Sprintf("Last:  %s", last.Format(output.TimestampLayout)),
	}

	if outOfOrder > 0 {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("%d event(s) out of chronological order", outOfOrder)
		result.Suggests = []string{"Entries are displayed in export order, not sorted by time"}
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("Spans %s", last.Sub(first))
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== LogSentinel Export Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case StatusOK:
			icon = "PASS"
			okCount++
		case StatusWarning:
			icon = "WARN"
			warnCount++
		case StatusError:
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != StatusOK {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		fmt.Fprintln(w, "\nFix the errors above before running parse.")
	case warnCount > 0:
		fmt.Fprintln(w, "\nExport is usable but has warnings.")
	default:
		fmt.Fprintln(w, "\nExport looks good!")
	}
}
