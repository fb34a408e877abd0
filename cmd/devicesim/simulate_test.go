package main

import (
	"errors"
	"os"
	"testing"
	"time"
)

// The simulate command must return when the fleet stops on its own, without
// waiting for a signal that may never come.
func TestWaitForFleetReturnsWhenFleetStops(t *testing.T) {
	done := make(chan error, 1)
	want := errors.New("all workers faulted")
	done <- want

	err := waitForFleet(done, make(chan os.Signal), func() {
		t.Error("cancel called without a signal")
	})
	if !errors.Is(err, want) {
		t.Errorf("waitForFleet = %v, want %v", err, want)
	}
}

func TestWaitForFleetSignalCancelsAndDrains(t *testing.T) {
	done := make(chan error, 1)
	sigs := make(chan os.Signal, 1)
	canceled := make(chan struct{})

	sigs <- os.Interrupt
	go func() {
		<-canceled
		done <- nil
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- waitForFleet(done, sigs, func() { close(canceled) })
	}()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("waitForFleet = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("waitForFleet did not return after signal")
	}
}
