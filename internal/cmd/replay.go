package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/boardsync/internal/config"
	"github.com/Iron-Ham/boardsync/internal/replay"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Play a dashboard scenario and print what was broadcast",
	Long: `Play a dashboard scenario through the synchronization engine.

The scenario declares shared tables, charts bound to them and a list of
user actions (render, hover, zoom, toggle, ...). Every cursor emission is
traced; the final state of each chart is printed at the end.

Examples:
  boardsync replay dashboard.yaml
  boardsync replay dashboard.yaml --filter 'point.*'
  boardsync replay dashboard.yaml --filter '*.extremes.*' --color never`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().String("filter", "", "glob matched against traced state names (default from replay.filter)")
	replayCmd.Flags().String("color", "", "color output: auto, always, never (default from replay.color)")
	_ = viper.BindPFlag("replay.filter", replayCmd.Flags().Lookup("filter"))
	_ = viper.BindPFlag("replay.color", replayCmd.Flags().Lookup("color"))
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logger.Close() }()

	scenario, err := replay.LoadFile(args[0])
	if err != nil {
		return err
	}

	runner, err := replay.NewRunner(cfg,
		replay.WithFilter(cfg.Replay.Filter),
		replay.WithLogger(logger))
	if err != nil {
		return err
	}

	res, err := runner.Run(cmd.Context(), scenario)
	out := cmd.OutOrStdout()
	if res != nil {
		printResult(out, newPalette(out, cfg.Replay.Color), res)
	}
	return err
}

func printResult(w io.Writer, p palette, res *replay.Result) {
	name := res.Scenario
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "%s %s\n", p.title("Scenario:"), name)
	fmt.Fprintf(w, "%s\n\n", p.muted("run "+res.RunID))

	fmt.Fprintln(w, p.title("Trace:"))
	if len(res.Entries) == 0 {
		fmt.Fprintln(w, p.muted("  (no emissions)"))
	}
	for _, e := range res.Entries {
		step := "-"
		if e.Step >= 0 {
			step = fmt.Sprintf("%d:%s", e.Step, e.Action)
		}
		fmt.Fprintf(w, "  #%-4d %-14s %s %s %s\n",
			e.Seq,
			step,
			p.state(e.Signal),
			p.muted("from"),
			p.source(e.Source))
	}
	if res.Filtered > 0 {
		fmt.Fprintf(w, "  %s\n", p.muted(fmt.Sprintf("(%d emissions filtered)", res.Filtered)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, p.title("Charts:"))
	for _, cs := range res.Charts {
		active := strings.Join(cs.Active, ",")
		if active == "" {
			active = "none"
		}
		hidden := strings.Join(cs.Hidden, ",")
		if hidden == "" {
			hidden = "none"
		}
		fmt.Fprintf(w, "  %s\n", p.source(cs.ID))
		fmt.Fprintf(w, "    syncs:   %s\n", active)
		fmt.Fprintf(w, "    tooltip: %s\n", cs.Tooltip)
		fmt.Fprintf(w, "    x: %s  y: %s  reset-zoom: %v\n", cs.XRange, cs.YRange, cs.ResetZoom)
		fmt.Fprintf(w, "    hidden:  %s\n", hidden)
	}
	fmt.Fprintln(w)

	if res.Leak != nil {
		fmt.Fprintf(w, "%s %v\n", p.warning("Leak:"), res.Leak)
	} else {
		fmt.Fprintf(w, "%s all teardowns ran\n", p.ok("OK:"))
	}
}
