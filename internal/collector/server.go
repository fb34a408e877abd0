// Collector accepting device messages over HTTP.
package collector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"devicesim/internal/logging"
	"devicesim/internal/telemetry"
)

// receivedMessage is a device message annotated with its arrival time.
type receivedMessage struct {
	telemetry.Message
	ReceivedAt time.Time `json:"received_at"`
}

// Server receives device messages, validates them against the closed kind
// set, and echoes each one as a JSON line with a received_at stamp.
type Server struct {
	out io.Writer
	now func() time.Time

	mu       sync.Mutex
	received map[telemetry.Kind]int
	rejected int
}

// NewServer creates a Server echoing accepted messages to os.Stdout.
func NewServer() *Server {
	return &Server{
		out:      os.Stdout,
		now:      time.Now,
		received: make(map[telemetry.Kind]int),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIngest)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Start serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logging.FromContext(ctx).Info("collector listening", "addr", addr)
	return srv.ListenAndServe()
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg telemetry.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		s.reject(w, "Invalid JSON")
		return
	}
	if !msg.Kind.Valid() {
		s.reject(w, "Unknown message type")
		return
	}

	s.mu.Lock()
	s.received[msg.Kind]++
	line, _ := json.Marshal(receivedMessage{Message: msg, ReceivedAt: s.now().UTC()})
	s.out.Write(append(line, '\n'))
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

func (s *Server) reject(w http.ResponseWriter, reason string) {
	s.mu.Lock()
	s.rejected++
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"status": "fail", "message": reason})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Stats summarizes what the collector has seen so far.
type Stats struct {
	Received map[telemetry.Kind]int `json:"received"`
	Rejected int                    `json:"rejected"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := Stats{Received: make(map[telemetry.Kind]int, len(s.received)), Rejected: s.rejected}
	for k, v := range s.received {
		stats.Received[k] = v
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
