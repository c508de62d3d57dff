package cmd

import (
	"fmt"
	"slices"

	"github.com/Iron-Ham/boardsync/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View boardsync configuration",
	Long: `View boardsync configuration.

Without arguments, displays the current configuration.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	// Cursor settings
	fmt.Fprintln(out, "cursor:")
	fmt.Fprintf(out, "  max_lasting: %d\n", cfg.Cursor.MaxLasting)

	// Sync settings
	fmt.Fprintln(out, "sync:")
	names := make([]string, 0, len(cfg.Sync))
	for name := range cfg.Sync {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s:\n", name)
		fmt.Fprintf(out, "    enabled: %v\n", cfg.Sync[name].Enabled)
	}

	// Logging settings
	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  dir: %s\n", cfg.LogDir())

	// Replay settings
	fmt.Fprintln(out, "replay:")
	fmt.Fprintf(out, "  filter: %s\n", cfg.Replay.Filter)
	fmt.Fprintf(out, "  color: %s\n", cfg.Replay.Color)

	if unknown := cfg.UnknownSyncs(); len(unknown) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Warning: no definition for sync(s) %v; they are ignored\n", unknown)
	}

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(out, used)
		return nil
	}
	fmt.Fprintln(out, config.ConfigFile())
	return nil
}
