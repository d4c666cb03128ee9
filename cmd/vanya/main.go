// Command vanya runs the storefront HTTP API and a few maintenance commands
// against the same persisted slots.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Humphrey-He/vanya/configs"
	"github.com/Humphrey-He/vanya/internal/logging"
)

var (
	// Global flags
	configFile string
	verbose    bool

	// Populated by PersistentPreRunE
	cfg      *configs.Config
	viperCfg *configs.ViperConfig
	logger   *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vanya",
	Short: "VANYA storefront backend",
	Long: `vanya serves the storefront catalog, cart, wishlist, account and
checkout over a JSON API, and offers offline commands to browse the
catalog and clear persisted session state.

Without --config the built-in defaults are used. Any setting can be
overridden with a VANYA_-prefixed environment variable, e.g.
VANYA_SERVER_ADDR=:9090. --config - reads YAML from stdin; such a
config is never reloaded.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(checkConfigCmd)
}

// setup loads the configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	switch configFile {
	case "":
		cfg = configs.DefaultConfig()
		viperCfg = nil
	case "-":
		c, err := configs.LoadFromReader(cmd.InOrStdin(), "yaml")
		if err != nil {
			return err
		}
		cfg = c
		viperCfg = nil
	default:
		vc, err := configs.NewViperConfig(configFile, nil)
		if err != nil {
			return err
		}
		viperCfg = vc
		cfg = vc.Get()
	}

	l, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = l.SetLevel("debug")
	}
	logger = l
	if viperCfg != nil {
		viperCfg.SetLogger(logger.Named("config"))
	}
	logger.Debug("Configuration loaded", zap.String("file", configFile))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
