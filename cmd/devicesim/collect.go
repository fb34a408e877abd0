package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"devicesim/internal/collector"
	"devicesim/internal/logging"
)

var collectAddr string

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the message collector server",
	Long:  "collect starts the HTTP server devices post their messages to; accepted messages are echoed to STDOUT with a received_at stamp.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// JSON diagnostics on STDERR; STDOUT carries the echoed messages.
		logger := logging.NewJSON(os.Stderr)
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		go func() {
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			<-sigs
			cancel()
		}()

		srv := collector.NewServer()
		if err := srv.Start(ctx, collectAddr); err != nil && err != http.ErrServerClosed {
			return err
		}
		logger.Info("collector stopped")
		return nil
	},
}

func init() {
	collectCmd.Flags().StringVar(&collectAddr, "addr", ":8080", "Listen address")
}
