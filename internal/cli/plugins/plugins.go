// Package plugins provides exec-based plugin support for logsentinel.
// Plugins are separate binaries named logsentinel-<command> that are
// discovered and executed when an unknown command is invoked.
//
// This follows the same pattern used by kubectl and git for plugins.
package plugins

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "logsentinel-"

// EnvBinary is set in a plugin's environment to the path of the logsentinel
// binary that launched it.
const EnvBinary = "LOGSENTINEL_BIN"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Plugin is an installed plugin binary.
type Plugin struct {
	Name string
	Path string
}

// Streams are the standard streams handed to a plugin. Nil fields fall back
// to the process's own streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func (s Streams) orDefaults() Streams {
	if s.In == nil {
		s.In = os.Stdin
	}
	if s.Out == nil {
		s.Out = os.Stdout
	}
	if s.Err == nil {
		s.Err = os.Stderr
	}
	return s
}

// PluginDir returns the per-user plugin directory.
func PluginDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".logsentinel", "plugins"), nil
}

// SearchDirs returns the plugin directories in lookup order:
//  1. Same directory as the logsentinel binary
//  2. ~/.logsentinel/plugins/
//  3. Every absolute directory in PATH
func SearchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if dir, err := PluginDir(); err == nil {
		dirs = append(dirs, dir)
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if filepath.IsAbs(dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// FindPlugin returns the path of the first executable logsentinel-<command>
// found in SearchDirs.
func FindPlugin(command string) (string, error) {
	if command == "" || strings.ContainsAny(command, `/\`) {
		return "", ErrPluginNotFound
	}

	name := Prefix + command
	for _, dir := range SearchDirs() {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", ErrPluginNotFound
}

// List returns the installed plugins sorted by name. A plugin found in more
// than one directory is reported once, at the location FindPlugin would use.
func List() []Plugin {
	seen := make(map[string]bool)
	var found []Plugin

	for _, dir := range SearchDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name, ok := strings.CutPrefix(entry.Name(), Prefix)
			if !ok || name == "" || seen[name] {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if !isExecutable(path) {
				continue
			}
			seen[name] = true
			found = append(found, Plugin{Name: name, Path: path})
		}
	}

	slices.SortFunc(found, func(a, b Plugin) int { return cmp.Compare(a.Name, b.Name) })
	return found
}

// Execute runs the plugin at pluginPath with args and returns its exit code.
// The plugin is killed if ctx is cancelled.
func Execute(ctx context.Context, pluginPath string, args []string, streams Streams) int {
	streams = streams.orDefaults()

	cmd := exec.CommandContext(ctx, pluginPath, args...) // #nosec G204 -- plugin path comes from FindPlugin
	cmd.Stdin = streams.In
	cmd.Stdout = streams.Out
	cmd.Stderr = streams.Err
	cmd.Env = os.Environ()
	if self, err := os.Executable(); err == nil {
		cmd.Env = append(cmd.Env, EnvBinary+"="+self)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		_, _ = fmt.Fprintf(streams.Err, "Error executing plugin: %v\n", err)
		return 1
	}
	return 0
}

// FormatNotFoundError returns the message shown for an unknown command. Any
// installed plugins are listed after the install hints.
func FormatNotFoundError(command string, installed []Plugin) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"logsentinel\"\n", command)
	sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as logsentinel\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.logsentinel/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)

	if len(installed) > 0 {
		names := make([]string, len(installed))
		for i, p := range installed {
			names[i] = p.Name
		}
		fmt.Fprintf(&sb, "\nInstalled plugins: %s\n", strings.Join(names, ", "))
	}

	sb.WriteString("\nRun 'logsentinel --help' for usage.")
	return sb.String()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
