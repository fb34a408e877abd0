package main

import (
	"os"

	"devicesim/internal/config"
	"devicesim/internal/sender"
)

// newSender builds the transport chain from flags and env vars. It returns
// the sender and a cleanup function closing any file resources.
func newSender(cfg *config.Config, printOnly bool, logFile string) (sender.Sender, func(), error) {
	cleanup := func() {}

	var snd sender.Sender
	if printOnly {
		snd = sender.NewStdoutSender()
	} else {
		snd = sender.NewHTTPSender(cfg.Endpoint)
	}

	senders := []sender.Sender{snd}

	// Optional time-series archive of everything transmitted.
	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		db := os.Getenv("GREPTIMEDB_DATABASE")
		if db == "" {
			db = "public"
		}
		gs, err := sender.NewGreptimeSender(endpoint, db, os.Getenv("GREPTIMEDB_TABLE"))
		if err != nil {
			return nil, nil, err
		}
		senders = append(senders, gs)
	}

	if logFile != "" {
		fs, err := sender.NewFileSender(logFile)
		if err != nil {
			return nil, nil, err
		}
		senders = append(senders, fs)
		cleanup = func() { fs.Close() }
	}

	if len(senders) == 1 {
		return snd, cleanup, nil
	}
	return sender.NewMultiSender(senders...), cleanup, nil
}
