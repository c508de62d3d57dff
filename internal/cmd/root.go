package cmd

import (
	"context"
	"strings"

	"github.com/Iron-Ham/boardsync/internal/config"
	"github.com/Iron-Ham/boardsync/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "boardsync",
	Short: "Cross-component synchronization engine for dashboards",
	Long: `boardsync keeps dashboard components bound to the same data table in
step: hover highlight, axis extremes and series visibility are broadcast
between charts without the charts knowing about one another.

Use "boardsync replay" to play a recorded scenario through the engine and
inspect what was broadcast.`,
	SilenceUsage: true,
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/boardsync/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/boardsync")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BOARDSYNC")
	// Replace dots with underscores for nested keys in env vars
	// e.g., BOARDSYNC_CURSOR_MAX_LASTING for cursor.max_lasting
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// newLogger returns the file logger when logging is enabled, else a
// logger that discards everything.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger(cfg.LogDir(), cfg.Logging.Level)
}
