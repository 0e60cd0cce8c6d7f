// Package cli implements the eduportal command line client.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/me/eduportal/internal/config"
	"github.com/me/eduportal/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagConfig      string
	flagEnvFile     string
	flagLocation    string
	flagAPIURL      string
	flagStore       string
	flagStoreDriver string
	flagTimeout     time.Duration
	flagDebug       bool
	flagLogLevel    string
	flagLogFormat   string

	logger *slog.Logger
	cfg    config.ClientConfig
)

// NewRootCmd creates the root cobra command for the eduportal CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "eduportal",
		Short: "eduportal: client for the learning platform",
		Long: "eduportal signs in to the learning platform, pairs students with teachers and parents,\n" +
			"browses curriculum and runs smoke checks against a backend.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A failed previous command skips PersistentPostRunE.
			if err := closeApp(); err != nil {
				return err
			}
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg = c
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeApp()
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML config file")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "Load EDUPORTAL_* variables from this file if it exists")
	pf.StringVar(&flagLocation, "location", "", "Page URL the backend address is resolved from (or EDUPORTAL_LOCATION)")
	pf.StringVar(&flagAPIURL, "api-url", "", "Backend base URL, bypassing location resolution (or EDUPORTAL_API_URL)")
	pf.StringVar(&flagStore, "store", "", "Local storage file (or EDUPORTAL_STORE)")
	pf.StringVar(&flagStoreDriver, "store-driver", "", "Local storage driver: sqlite, bolt or memory")
	pf.DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout (default 15s)")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newEnvCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newConnectCmd(),
		newCurriculumCmd(),
		newAssignmentsCmd(),
		newLibraryCmd(),
		newOnboardingCmd(),
		newSmokeCmd(),
		newDevserverCmd(),
	)

	return root
}

// loadConfig layers defaults, the config file, the .env file, EDUPORTAL_*
// variables and finally explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.ClientConfig, error) {
	c := config.DefaultClientConfig()
	if flagConfig != "" {
		var err error
		if c, err = config.LoadFile(flagConfig); err != nil {
			return c, err
		}
	}
	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return c, err
	}
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return c, fmt.Errorf("environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("location") {
		c.Location = flagLocation
	}
	if flags.Changed("api-url") {
		c.APIBaseURL = flagAPIURL
	}
	if flags.Changed("store") {
		c.StorePath = flagStore
	}
	if flags.Changed("store-driver") {
		c.StoreDriver = flagStoreDriver
	}
	if flags.Changed("timeout") {
		c.Timeout = flagTimeout
	}
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = flagLogFormat
	}
	if flagDebug {
		c.LogLevel = "debug"
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
