package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"holical/internal/config"
	appLog "holical/internal/log"
)

const version = "0.3.0"

var (
	cfgPath  string
	envFile  string
	logLevel string

	// cfg is populated by loadConfig before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "holical",
	Short: "Calendar with recurring events and localized public holidays",
	Long: `holical stores events, expands their recurrence rules and merges them
with per-country public holidays into month views.

Examples:
  holical serve
  holical holidays DE 2025 --locale de_DE
  holical expand --rule "FREQ=MONTHLY;BYDAY=-1FR" --anchor 2025-01-01 --from 2025-01-01 --to 2025-12-31
  holical import`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the dotenv file, the config file and the environment,
// in that order of increasing precedence, then configures logging.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.ApplyEnv(os.LookupEnv)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}
	if err := appLog.Configure(c.Log); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	if logLevel != "" {
		appLog.SetLevel(appLog.ParseLevel(logLevel))
	}

	appLog.Debug("effective config",
		"command", cmd.Name(),
		"config_path", cfgPath,
		"listen", c.Listen,
		"timezone", c.Timezone,
		"locale", c.Locale,
		"country", c.Country,
		"first_weekday", c.FirstWeekday,
		"database", c.Database,
		"ics_count", len(c.ICS),
	)
	cfg = c
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "holical version %s\n", version)
	},
}
