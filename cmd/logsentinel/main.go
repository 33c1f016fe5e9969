// LogSentinel - Cloud Log Export Parser
//
// LogSentinel reads CloudWatch Logs JSON exports, infers entry levels from
// their [LEVEL] tags, and displays the entries that pass the given filters.
package main

import (
	"os"

	"github.com/logsentinel/logsentinel/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
