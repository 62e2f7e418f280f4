package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/repository"

	_ "storefront/docs"
)

//go:generate swag init --dir ../../ -g cmd/storefront/main.go --output ../../docs

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Shoe storefront session engine",
	Long: `storefront serves shopping sessions over the shoe catalog: shelves and
search, cart and wishlist, checkout and order tracking.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(serveCmd, trackCmd, searchCmd)
}

func loadStore() (*repository.MemoryStore, error) {
	seed, err := repository.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	return repository.NewMemoryStoreFromSeed(seed)
}

// @title Storefront API
// @version 1.0
// @description Shopping sessions over the shoe catalog: shelves, cart, wishlist, checkout and order tracking.
// @BasePath /api/v1
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
