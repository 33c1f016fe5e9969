package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/logsentinel/logsentinel/internal/cli/plugins"
)

// NewPluginsCommand creates the plugins command.
func NewPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List installed plugins",
		Long: `List the logsentinel-<command> plugins that can be invoked as
"logsentinel <command>", with the binary each name resolves to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlugins(cmd.OutOrStdout(), plugins.List())
		},
	}
}

func printPlugins(w io.Writer, installed []plugins.Plugin) error {
	if len(installed) == 0 {
		_, err := fmt.Fprintln(w, "No plugins found.")
		return err
	}

	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("Name", "Path").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, p := range installed {
		t.Row(p.Name, p.Path)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
