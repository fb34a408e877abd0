package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"devicesim/internal/logging"
	"devicesim/internal/replay"
	"devicesim/internal/sender"
)

var (
	replayInput     string
	replayInterval  time.Duration
	replayPort      int
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded message file",
	Long:  "replay reads NDJSON messages from a file and sends each one to the collector at a fixed interval.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}

		var snd sender.Sender
		if replayPrintOnly {
			snd = sender.NewStdoutSender()
		} else {
			snd = sender.NewHTTPSender(fmt.Sprintf("http://localhost:%d", replayPort))
		}

		ctx := logging.NewContext(context.Background(), logging.New())
		return replay.ReplayFile(ctx, replayInput, snd, replayInterval)
	},
}

func init() {
	replayCmd.Flags().StringVarP(&replayInput, "file", "f", "", "Path to the NDJSON message file")
	replayCmd.Flags().DurationVarP(&replayInterval, "interval", "i", time.Second, "Interval between messages")
	replayCmd.Flags().IntVarP(&replayPort, "port", "p", 8080, "Collector port at http://localhost:<port>")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print messages to STDOUT instead of sending them")
	replayCmd.MarkFlagRequired("file")
}
