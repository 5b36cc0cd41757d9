// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"
	"sync"

	"fjacquet/ledger-audit/internal/config"
	"fjacquet/ledger-audit/internal/container"
	"fjacquet/ledger-audit/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by every subcommand
type CommonFlags struct {
	ConfigFile     string
	LogLevel       string
	LogFormat      string
	Transactions   string
	Correspondence string
	Policy         string
	Rules          string
	Delimiter      string
	Sequential     bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledger-audit",
		Short: "A CLI tool to audit expense ledgers against a compliance policy.",
		Long: `ledger-audit checks every ledger transaction against the expense policy
and correlates transactions with internal correspondence to surface
violations that only become visible in context.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ledger-audit!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer != nil {
				if err := appContainer.Close(); err != nil {
					Log.Warnf("Failed to close container: %v", err)
				}
			}
		},
	}

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}

	appConfig    *config.Config
	appContainer *container.Container
	initOnce     sync.Once
)

// Init initializes the root command and all flags. Repeated calls are no-ops.
func Init() {
	initOnce.Do(registerFlags)
}

func registerFlags() {
	pf := Cmd.PersistentFlags()
	pf.StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches $HOME/.ledger-audit, .ledger-audit and .)")
	pf.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
	pf.StringVarP(&SharedFlags.Transactions, "transactions", "t", "", "Ledger CSV file")
	pf.StringVarP(&SharedFlags.Correspondence, "correspondence", "m", "", "Internal correspondence file")
	pf.StringVarP(&SharedFlags.Policy, "policy", "p", "", "Compliance policy text file")
	pf.StringVarP(&SharedFlags.Rules, "rules", "r", "", "YAML rules file overriding the built-in policy")
	pf.StringVar(&SharedFlags.Delimiter, "csv-delimiter", "", "Ledger and CSV report column delimiter")
	pf.BoolVar(&SharedFlags.Sequential, "sequential", false, "Run the direct and contextual passes one after the other")
}

// Setup loads the configuration, applies flag overrides and builds the
// application container.
func Setup(cmd *cobra.Command) error {
	cfg, err := config.InitializeConfigFrom(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	Log = config.ConfigureLoggingFromConfig(cfg)
	Log.SetOutput(os.Stderr)

	c, err := container.NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(Log))
	if err != nil {
		return err
	}
	appConfig = cfg
	appContainer = c
	return nil
}

// applyFlags overrides configuration values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if changed("log-format") {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if changed("transactions") {
		cfg.Sources.Transactions = SharedFlags.Transactions
	}
	if changed("correspondence") {
		cfg.Sources.Correspondence = SharedFlags.Correspondence
	}
	if changed("policy") {
		cfg.Sources.Policy = SharedFlags.Policy
	}
	if changed("rules") {
		cfg.Sources.Rules = SharedFlags.Rules
	}
	if changed("csv-delimiter") {
		cfg.CSV.Delimiter = SharedFlags.Delimiter
	}
	if changed("sequential") {
		cfg.Audit.Parallel = !SharedFlags.Sequential
	}
}

// GetContainer returns the container built by Setup, or nil before it ran.
func GetContainer() *container.Container {
	return appContainer
}

// GetConfig returns the configuration loaded by Setup, or nil before it ran.
func GetConfig() *config.Config {
	return appConfig
}

// GetLogrusAdapter returns the command logger behind the logging.Logger interface.
func GetLogrusAdapter() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}
