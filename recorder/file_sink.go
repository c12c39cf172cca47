package recorder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileSink writes one JSONL row per step to output_directory/snapshots.jsonl,
// buffering bufferSize rows before flushing — data_recorder_config's
// output_directory/buffer_size fields (§6). Each row carries the sink's RunID
// so rows from concurrently-run simulations sharing an output_directory (or
// appended to the same archive downstream) can still be told apart.
type FileSink struct {
	mu         sync.Mutex
	f          *os.File
	enc        *json.Encoder
	bufferSize int
	pending    int

	RunID string
}

type row struct {
	RunID string         `json:"run_id"`
	T     float64        `json:"t_seconds"`
	Cells map[string]any `json:"cells"`
}

// NewFileSink creates outputDirectory if needed and opens snapshots.jsonl
// for append.
func NewFileSink(outputDirectory string, bufferSize int) (*FileSink, error) {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if err := os.MkdirAll(outputDirectory, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(outputDirectory, "snapshots.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f, enc: json.NewEncoder(f), bufferSize: bufferSize, RunID: uuid.NewString()}, nil
}

// Publish writes one row; every bufferSize rows it flushes to disk via Sync.
// Encoding errors are swallowed here deliberately — the recorder is an
// external sink per §5 and must never block or panic the simulation core on
// an I/O failure.
func (s *FileSink) Publish(t time.Duration, cells map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.enc.Encode(row{RunID: s.RunID, T: t.Seconds(), Cells: cells})
	s.pending++
	if s.pending >= s.bufferSize {
		_ = s.f.Sync()
		s.pending = 0
	}
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.f.Sync()
	return s.f.Close()
}
