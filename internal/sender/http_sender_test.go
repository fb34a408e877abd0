package sender

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devicesim/internal/telemetry"
)

func testMessage() telemetry.Message {
	return telemetry.Message{
		Timestamp: time.Unix(0, 0).UTC(),
		DeviceID:  "d1",
		Firmware:  "1.0-sim",
		Kind:      telemetry.KindLog,
		Log:       &telemetry.LogPayload{Severity: telemetry.SeverityInfo, Message: "m"},
	}
}

func TestHTTPSenderPostsJSON(t *testing.T) {
	var got telemetry.Message
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL)
	if err := s.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}
	if got.DeviceID != "d1" || got.Kind != telemetry.KindLog {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestHTTPSenderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL)
	err := s.Send(context.Background(), testMessage())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", statusErr.Code)
	}
}

func TestHTTPSenderConnectionError(t *testing.T) {
	// Closed server: the send must fail without panicking or retrying.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := NewHTTPSender(srv.URL)
	if err := s.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected connection error")
	}
}
