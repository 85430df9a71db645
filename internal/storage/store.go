// Package storage persists recorded runs, either as a directory per run
// (metadata.json plus frames.csv) or in a SQLite database.
package storage

import (
	"fmt"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("bezspring.storage")
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Store interface {
	Init() error
	// Save stores a run and returns its ID. Empty ID and timestamp fields
	// of meta are filled in.
	Save(meta *RunMetadata, records []FrameRecord) (string, error)
	List() ([]RunMetadata, error)
	Load(runID string) (*RunMetadata, error)
	LoadFrames(runID string) ([]FrameRecord, error)
	// Close releases the backend. Closing twice is allowed.
	Close() error
}

// Open returns an initialized store for backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	var s Store
	switch backend {
	case BackendFile, "":
		s = NewFileStore(dir)
	case BackendSQLite:
		s = NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	tracer().Debugf("opened %s store at %s", backend, dir)
	return s, nil
}

func fillMetadata(meta *RunMetadata, records []FrameRecord) {
	now := time.Now()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	if meta.ID == "" {
		name := meta.Scenario
		if name == "" {
			name = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	}
	meta.Frames = len(records)
}
