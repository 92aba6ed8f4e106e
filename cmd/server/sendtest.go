package main

import (
	"context"
	"fmt"

	"github.com/salwynchristopher/portfolio/internal/contact"
	"github.com/salwynchristopher/portfolio/internal/mail"

	"github.com/spf13/cobra"
)

var sendTestCmd = &cobra.Command{
	Use:   "send-test",
	Short: "Send both contact emails once, bypassing the rate limit",
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Close()

		svc := contact.NewService(contact.Dependencies{
			Transport: mail.NewSMTPTransport(cfg.Mail),
			Mail:      cfg.Mail,
			Logger:    logger,
		})

		if err := svc.CheckConfig(); err != nil {
			return err
		}

		err = svc.Submit(context.Background(), contact.Submission{
			Name:    "Test Sender",
			Email:   to,
			Subject: "Test message",
			Message: "This is a test submission sent from the command line.",
		})
		if err != nil {
			return fmt.Errorf("test send failed: %w", err)
		}

		fmt.Printf("Sent notification to %s and acknowledgment to %s\n", cfg.Mail.Sender, to)
		return nil
	},
}
