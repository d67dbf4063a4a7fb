package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives a finished dataset
type Sink interface {
	Write(ctx context.Context, d *Dataset) error
}

// JSONFileSink writes the dataset once to a JSON file, creating parent directories
type JSONFileSink struct {
	Path string
}

func (s JSONFileSink) Write(_ context.Context, d *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("dataset: create output dir: %w", err)
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", s.Path, err)
	}
	if err := d.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("dataset: write %s: %w", s.Path, err)
	}
	return f.Close()
}

// MemorySink holds the latest dataset for request-time filtering
type MemorySink struct {
	mu      sync.RWMutex
	current *Dataset
}

func (s *MemorySink) Write(_ context.Context, d *Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = d
	return nil
}

// Current returns the stored dataset, or an empty one
func (s *MemorySink) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return &Dataset{Rejections: Tally{}}
	}
	return s.current
}
