package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/space-status/internal/domain/presence"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.yaml"))
	record, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, record)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns an equal record.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "state.yaml")
	repo := NewFileRepository(file)

	want := &domain.Record{
		State:       domain.OpenIntern,
		LastChanged: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.State, got.State)
	require.Equal(t, want.LastChanged.Unix(), got.LastChanged.Unix())

	// No staging leftovers.
	_, err = os.Stat(file + ".tmp")
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFileRepository_Overwrite verifies each Save replaces the single record.
func TestFileRepository_Overwrite(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "state.yaml"))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Record{State: domain.Open, LastChanged: time.Unix(100, 0)}))
	require.NoError(t, repo.Save(ctx, &domain.Record{State: domain.Closed, LastChanged: time.Unix(200, 0)}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Closed, got.State)
	require.Equal(t, int64(200), got.LastChanged.Unix())
}

// TestFileRepository_ZeroLastChanged keeps the never-changed marker across a roundtrip.
func TestFileRepository_ZeroLastChanged(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "state.yaml"))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Record{State: domain.Closed}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Closed, got.State)
	require.True(t, got.LastChanged.IsZero())
}

// TestFileRepository_CorruptFile reports a decode error for unparseable content.
func TestFileRepository_CorruptFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(file, []byte("state: {nope"), 0o600))

	repo := NewFileRepository(file)
	record, err := repo.Load(context.Background())
	require.Error(t, err)
	require.Nil(t, record)
}
