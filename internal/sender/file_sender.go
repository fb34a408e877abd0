package sender

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"devicesim/internal/telemetry"
)

// FileSender writes messages to a JSONL file. The output is valid replay
// input for the replay command.
type FileSender struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewFileSender creates (or truncates) the file at path.
func NewFileSender(path string) (*FileSender, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSender{file: f, enc: json.NewEncoder(f)}, nil
}

// Send appends one message as a JSON line.
func (s *FileSender) Send(_ context.Context, msg telemetry.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(msg)
}

// SendBatch appends multiple messages.
func (s *FileSender) SendBatch(ctx context.Context, msgs []telemetry.Message) error {
	for _, m := range msgs {
		if err := s.Send(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (s *FileSender) Close() error {
	return s.file.Close()
}
