package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	"github.com/spf13/afero"
)

// EventsFile is the name of the event log inside the storage directory.
const EventsFile = "application-events.jsonl"

// EventStore appends one JSON document per line to a log file next to the
// snapshots. Lines are never rewritten.
type EventStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewEventStore creates the directory if needed. The log file appears on first append.
func NewEventStore(fs afero.Fs, dir string) (*EventStore, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create event dir %s: %w", dir, err)
	}
	return &EventStore{fs: fs, path: filepath.Join(dir, EventsFile)}, nil
}

var _ portsrepo.EventRepositoryFacade = (*EventStore)(nil)

func (s *EventStore) Append(ctx context.Context, event domain.ApplicationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.EventID, err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append event %s: %w", event.EventID, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync event log: %w", err)
	}
	return f.Close()
}

// readAll returns every event in append order.
func (s *EventStore) readAll() ([]domain.ApplicationEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.fs.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	var events []domain.ApplicationEvent
	dec := json.NewDecoder(f)
	for {
		var event domain.ApplicationEvent
		err := dec.Decode(&event)
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode event log entry %d: %w", len(events)+1, err)
		}
		events = append(events, event)
	}
}

func (s *EventStore) ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationEvent, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ApplicationEvent, 0)
	for _, e := range all {
		if e.ApplicationID == applicationID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (s *EventStore) ListRecent(ctx context.Context, limit int) ([]domain.ApplicationEvent, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ApplicationEvent, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
