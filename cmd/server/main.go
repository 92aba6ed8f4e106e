package main

import (
	"fmt"
	"os"

	"github.com/salwynchristopher/portfolio/internal/config"
	"github.com/salwynchristopher/portfolio/internal/logging"
	"github.com/salwynchristopher/portfolio/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio contact form service",
	Long: `Backend for the portfolio site. It accepts contact form submissions,
rate limits them per client and forwards them by email.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkConfigCmd)
	rootCmd.AddCommand(sendTestCmd)
	rootCmd.AddCommand(versionCmd)

	sendTestCmd.Flags().String("to", "", "address that receives the acknowledgment")
	_ = sendTestCmd.MarkFlagRequired("to")
}

// loadConfig loads the configuration and installs the process logger
func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logConfig := &logging.Config{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      7,
		Development: !cfg.IsProduction(),
		LogRequests: cfg.LogRequests,
	}
	if err := logConfig.Validate(); err != nil {
		return nil, nil, err
	}
	if err := logging.Configure(logConfig); err != nil {
		return nil, nil, err
	}

	return cfg, logging.GetLogger(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
