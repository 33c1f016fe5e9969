package plugins

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFindPlugin_NotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PATH", t.TempDir())

	_, err := FindPlugin("nonexistent-plugin-xyz")
	if !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestFindPlugin_InPluginsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	pluginsDir, err := PluginDir()
	if err != nil {
		t.Fatalf("PluginDir() error = %v", err)
	}
	if err := os.MkdirAll(pluginsDir, 0755); err != nil {
		t.Fatalf("failed to create plugins dir: %v", err)
	}

	pluginPath := filepath.Join(pluginsDir, "logsentinel-testplugin")
	if err := os.WriteFile(pluginPath, []byte("#!/bin/sh\necho test"), 0755); err != nil {
		t.Fatalf("failed to create test plugin: %v", err)
	}

	found, err := FindPlugin("testplugin")
	if err != nil {
		t.Errorf("expected to find plugin, got error: %v", err)
	}
	if found != pluginPath {
		t.Errorf("expected %s, got %s", pluginPath, found)
	}
}

func TestFindPlugin_InPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	binDir := t.TempDir()
	t.Setenv("PATH", binDir)

	pluginPath := filepath.Join(binDir, "logsentinel-pathplugin")
	if err := os.WriteFile(pluginPath, []byte("#!/bin/sh\nexit 0"), 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindPlugin("pathplugin")
	if err != nil {
		t.Fatalf("expected to find plugin, got error: %v", err)
	}
	if found != pluginPath {
		t.Errorf("expected %s, got %s", pluginPath, found)
	}
}

func TestExecute_ExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	script := filepath.Join(t.TempDir(), "logsentinel-exit")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 3\n"), 0755); err != nil {
		t.Fatal(err)
	}

	if got := Execute(context.Background(), script, nil, Streams{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}); got != 3 {
		t.Errorf("Execute() = %d, want 3", got)
	}
}

func TestExecute_StreamsAndEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	script := filepath.Join(t.TempDir(), "logsentinel-echo")
	body := "#!/bin/sh\necho \"args=$*\"\necho \"bin=$" + EnvBinary + "\"\necho oops >&2\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), script, []string{"a", "--b"}, Streams{In: strings.NewReader(""), Out: &stdout, Err: &stderr})
	if code != 0 {
		t.Fatalf("Execute() = %d, want 0", code)
	}

	self, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "args=a --b\n") {
		t.Errorf("plugin args not passed through:\n%s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "bin="+self+"\n") {
		t.Errorf("expected %s in plugin environment:\n%s", EnvBinary, stdout.String())
	}
	if stderr.String() != "oops\n" {
		t.Errorf("stderr = %q, want oops", stderr.String())
	}
}

func TestExecute_MissingBinary(t *testing.T) {
	var stderr bytes.Buffer
	code := Execute(context.Background(), filepath.Join(t.TempDir(), "missing"), nil, Streams{Err: &stderr})
	if code != 1 {
		t.Errorf("Execute() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Error executing plugin") {
		t.Errorf("unexpected stderr: %q", stderr.String())
	}
}

func TestFindPlugin_RejectsPaths(t *testing.T) {
	for _, command := range []string{"", "../x", "a/b"} {
		if _, err := FindPlugin(command); !errors.Is(err, ErrPluginNotFound) {
			t.Errorf("FindPlugin(%q) = %v, want ErrPluginNotFound", command, err)
		}
	}
}

func TestList(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	binDir := t.TempDir()
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+"relative/dir")

	pluginsDir, err := PluginDir()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(pluginsDir, 0755); err != nil {
		t.Fatal(err)
	}

	files := []struct {
		dir  string
		name string
		mode os.FileMode
	}{
		{pluginsDir, "logsentinel-watch", 0755},
		{binDir, "logsentinel-watch", 0755},
		{binDir, "logsentinel-export", 0755},
		{binDir, "logsentinel-notes", 0644},
		{binDir, "logsentinel-", 0755},
		{binDir, "other-tool", 0755},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(f.dir, f.name), []byte("#!/bin/sh\n"), f.mode); err != nil {
			t.Fatal(err)
		}
	}

	got := List()
	want := []Plugin{
		{Name: "export", Path: filepath.Join(binDir, "logsentinel-export")},
		{Name: "watch", Path: filepath.Join(pluginsDir, "logsentinel-watch")},
	}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFormatNotFoundError(t *testing.T) {
	msg := FormatNotFoundError("watch", nil)

	for _, want := range []string{
		`unknown command "watch"`,
		"logsentinel-watch",
		"~/.logsentinel/plugins/logsentinel-watch",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to contain %q\n%s", want, msg)
		}
	}
}

func TestFormatNotFoundError_ListsInstalled(t *testing.T) {
	msg := FormatNotFoundError("wacth", []Plugin{{Name: "export"}, {Name: "watch"}})

	if !strings.Contains(msg, "Installed plugins: export, watch") {
		t.Errorf("expected installed plugins in message\n%s", msg)
	}
	if strings.Contains(FormatNotFoundError("wacth", nil), "Installed plugins") {
		t.Error("no installed plugins line expected when none are installed")
	}
}

func TestIsExecutable(t *testing.T) {
	tmpDir := t.TempDir()

	nonExec := filepath.Join(tmpDir, "nonexec")
	if err := os.WriteFile(nonExec, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if isExecutable(nonExec) {
		t.Error("non-executable file should not be detected as executable")
	}

	exec := filepath.Join(tmpDir, "exec")
	if err := os.WriteFile(exec, []byte("test"), 0755); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if !isExecutable(exec) {
		t.Error("executable file should be detected as executable")
	}

	if isExecutable(tmpDir) {
		t.Error("directory should not be detected as executable")
	}
	if isExecutable(filepath.Join(tmpDir, "nonexistent")) {
		t.Error("non-existent file should not be detected as executable")
	}
}
