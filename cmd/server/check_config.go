package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration without starting the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Environment:  %s\n", cfg.Environment)
		fmt.Printf("Port:         %s\n", cfg.Port)
		fmt.Printf("Rate limit:   %d per %s\n", cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
		if cfg.Redis.Addr != "" {
			fmt.Printf("Store:        redis %s\n", cfg.Redis.Addr)
		} else {
			fmt.Printf("Store:        memory (sweep every %s)\n", cfg.RateLimit.SweepInterval)
		}

		missing := cfg.Mail.MissingKeys()
		if len(missing) > 0 {
			return fmt.Errorf("email service is not configured, missing: %s", strings.Join(missing, ", "))
		}

		fmt.Printf("SMTP:         %s (secure=%v) as %s\n", cfg.Mail.Addr(), cfg.Mail.Secure, cfg.Mail.Sender)
		fmt.Println("Configuration OK")
		return nil
	},
}
