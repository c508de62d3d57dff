package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Iron-Ham/boardsync/internal/replay"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const dashboardScenario = "../replay/testdata/dashboard.yaml"

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(t *testing.T, root *cobra.Command, args ...string) (output string, err error) {
	t.Helper()

	// Keep user config out of the way and reset flags between runs.
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, fs := range []*pflag.FlagSet{root.PersistentFlags(), replayCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// traceSection returns the replay output between the Trace and Charts
// headings.
func traceSection(out string) string {
	_, rest, ok := strings.Cut(out, "Trace:")
	if !ok {
		return ""
	}
	trace, _, _ := strings.Cut(rest, "Charts:")
	return trace
}

func TestTraceSection(t *testing.T) {
	out := "Scenario: s\n\nTrace:\n  #1 point.mouseOver\n\nCharts:\n    syncs:   extremes\n"
	got := traceSection(out)
	if !strings.Contains(got, "point.mouseOver") || strings.Contains(got, "extremes") {
		t.Errorf("traceSection() = %q", got)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "boardsync" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "boardsync")
	}

	// Compare by Name(), not Use which includes args
	expectedCmds := []string{"replay", "config"}
	cmdMap := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, name := range expectedCmds {
		if !cmdMap[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestReplayCommand(t *testing.T) {
	out, err := executeCommand(t, rootCmd, "replay", dashboardScenario)
	if err != nil {
		t.Fatalf("replay error = %v\n%s", err, out)
	}

	for _, want := range []string{
		"Scenario: sales dashboard",
		"point.mouseOver[row=3 col=revenue]",
		"xAxis.extremes.min",
		"tooltip: cost[3]",
		"OK: all teardowns ran",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("output to a buffer should not be styled")
	}
}

func TestReplayCommand_Filter(t *testing.T) {
	out, err := executeCommand(t, rootCmd, "replay", dashboardScenario, "--filter", "point.*")
	if err != nil {
		t.Fatalf("replay error = %v\n%s", err, out)
	}
	trace := traceSection(out)
	if !strings.Contains(trace, "point.mouseOut") {
		t.Errorf("filtered trace missing point.mouseOut\n%s", out)
	}
	if strings.Contains(trace, "extremes") {
		t.Errorf("filtered trace contains extremes\n%s", out)
	}
	if !strings.Contains(out, "emissions filtered") {
		t.Errorf("filtered output should report the filtered count\n%s", out)
	}
}

func TestReplayCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no file", args: []string{"replay"}},
		{name: "missing file", args: []string{"replay", "testdata/nope.yaml"}},
		{name: "bad filter", args: []string{"replay", dashboardScenario, "--filter", "point.["}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(t, rootCmd, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConfigShow(t *testing.T) {
	out, err := executeCommand(t, rootCmd, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"max_lasting: 16", "highlight:", "extremes:", "visibility:", "filter: *"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestConfigShow_EnvOverride(t *testing.T) {
	t.Setenv("BOARDSYNC_CURSOR_MAX_LASTING", "4")

	out, err := executeCommand(t, rootCmd, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "max_lasting: 4") {
		t.Errorf("env override not applied\n%s", out)
	}
}

func TestConfigPath(t *testing.T) {
	out, err := executeCommand(t, rootCmd, "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "config.yaml") {
		t.Errorf("config path = %q", out)
	}
}

func TestPrintResult_Leak(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, newPalette(&buf, "never"), &replay.Result{
		RunID: "r1",
		Leak:  errors.New("A(highlight)"),
	})

	out := buf.String()
	for _, want := range []string{"Scenario: (unnamed)", "(no emissions)", "Leak: A(highlight)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		mode string
		want bool
	}{
		{"always", true},
		{"never", false},
		{"auto", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := useColor(&buf, tt.mode); got != tt.want {
			t.Errorf("useColor(buffer, %q) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
