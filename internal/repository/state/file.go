package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/space-status/internal/config"
	domain "github.com/oshokin/space-status/internal/domain/presence"
)

// Repository defines persistence operations for the presence record.
type Repository interface {
	Load(ctx context.Context) (*domain.Record, error)
	Save(ctx context.Context, record *domain.Record) error
}

// FileRepository persists the presence record to a YAML file on disk.
// There is exactly one current record: every Save overwrites the previous
// one, no history is kept.
type FileRepository struct {
	// path is the filesystem location of the YAML state file.
	path string
	// mu protects concurrent access to the state file.
	mu sync.Mutex
}

// ErrNotFound is returned when the state file does not exist yet.
var ErrNotFound = errors.New("state not found")

// fileRecord is the on-disk layout of the presence record.
type fileRecord struct {
	// State is the presence state in its textual form.
	State domain.State `yaml:"state"`
	// LastChanged is the unix timestamp of the last actual change,
	// zero when the state never changed.
	LastChanged int64 `yaml:"last_changed"`
}

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the record from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var stored fileRecord
	if err = yaml.Unmarshal(contents, &stored); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	record := &domain.Record{
		State: stored.State,
	}
	if stored.LastChanged > 0 {
		record.LastChanged = time.Unix(stored.LastChanged, 0)
	}

	return record, nil
}

// Save writes the record to disk. The new content is fully staged in a
// temporary file and moved into place with a rename, so a crash mid-write
// can never leave a partial record behind.
func (r *FileRepository) Save(_ context.Context, record *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := fileRecord{
		State: record.State,
	}
	if !record.LastChanged.IsZero() {
		stored.LastChanged = record.LastChanged.Unix()
	}

	data, err := yaml.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	staging := r.path + ".tmp"
	if err = os.WriteFile(staging, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("stage state file: %w", err)
	}

	if err = os.Rename(staging, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
