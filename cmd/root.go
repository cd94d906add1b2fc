// Package cmd provides the floyd command line.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adalundhe/floyd/core/config"
	"github.com/adalundhe/floyd/core/storage"
)

var (
	configFile string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "floyd",
	Short: "Floyd - a dialogue router for interactive fiction",
	Long: `Floyd answers player input in character. Input addressed to the routed
selector is rewritten, classified by intent and answered by the matching
persona; any other selector names a persona directly.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file applied after the user and project layers")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")
}

// loadConfig reads the config layers and installs the default logger.
func loadConfig() (*config.Manager, error) {
	var opts []config.ManagerOption
	if wd, err := os.Getwd(); err == nil {
		opts = append(opts, config.WithProjectRoot(wd))
	}
	if configFile != "" {
		opts = append(opts, config.WithFile(configFile))
	}

	m := config.NewManager(storage.ResolveDirs(), opts...)
	if err := m.Load(); err != nil {
		return nil, err
	}
	if err := installLogger(m.Get().Log); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// installLogger applies the log flags over cfg and sets the default logger.
func installLogger(cfg config.LogConfig) error {
	if logLevel != "" {
		cfg.Level = logLevel
	}
	if logFormat != "" {
		cfg.Format = logFormat
	}
	logger, err := config.NewLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
