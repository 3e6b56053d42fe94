package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var logTimestamp = regexp.MustCompile(`\d{2}:\d{2}:\d{2}\.\d{2}`)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  log.Level
		debug  bool
		prefix string
	}{
		{"info hides debug", LogInfo, false, "INFO"},
		{"debug shows debug", LogDebug, true, "DEBU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("cache miss", "key", "stack:abc")
			logger.Info("parsed")

			out := buf.String()
			if got := strings.Contains(out, "cache miss"); got != tt.debug {
				t.Errorf("debug line logged = %v, want %v:\n%s", got, tt.debug, out)
			}
			if !strings.Contains(out, tt.prefix) {
				t.Errorf("output %q has no %s entry", out, tt.prefix)
			}
			if !logTimestamp.MatchString(out) {
				t.Errorf("output %q has no %s timestamp", out, logTimeFormat)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	prog.done("Checked files", "files", 3, "failed", 0)

	out := buf.String()
	for _, want := range []string{"Checked files", "files=3", "failed=0", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestProgressDoneQuietAboveInfo(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.WarnLevel))
	prog.done("Checked files")
	if buf.Len() != 0 {
		t.Errorf("progress logged at warn level: %q", buf.String())
	}
}

func TestCheckCommandLogsProgress(t *testing.T) {
	dir := isolate(t)
	good := writeITF(t, dir, "good.itf", demoITF)
	bad := writeITF(t, dir, "bad.itf", brokenITF)

	r := execute(t, "", "check", good, bad)
	if r.err == nil {
		t.Fatal("check with a broken file succeeded")
	}
	for _, want := range []string{"Checked files", "files=2", "failed=1"} {
		if !strings.Contains(r.log, want) {
			t.Errorf("log %q missing %q", r.log, want)
		}
	}
	if strings.Contains(r.stdout, "Checked files") {
		t.Error("progress line leaked to stdout")
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		level log.Level
	}{
		{"default", nil, LogInfo},
		{"verbose", []string{"-v"}, LogDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			var buf bytes.Buffer
			c := New(&buf, LogInfo)
			root := c.RootCommand()

			var got *log.Logger
			root.AddCommand(&cobra.Command{
				Use: "whoami",
				RunE: func(cmd *cobra.Command, args []string) error {
					got = loggerFromContext(cmd.Context())
					return nil
				},
			})
			root.SetArgs(append([]string{"whoami"}, tt.args...))
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("Execute() error: %v", err)
			}

			if got != c.Logger {
				t.Error("command context does not carry the CLI logger")
			}
			if lvl := c.Logger.GetLevel(); lvl != tt.level {
				t.Errorf("logger level = %v, want %v", lvl, tt.level)
			}
		})
	}
}

func TestRootCommandLevelFromConfig(t *testing.T) {
	dir := isolate(t)
	cfg := writeITF(t, dir, "config.toml", "[log]\nlevel = \"warn\"\n")

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfg, "cache", "path"})
	root.SetOut(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if lvl := c.Logger.GetLevel(); lvl != log.WarnLevel {
		t.Errorf("logger level = %v, want warn from %s", lvl, filepath.Base(cfg))
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if l := loggerFromContext(context.Background()); l != log.Default() {
		t.Error("loggerFromContext(bare context) is not log.Default()")
	}
}
