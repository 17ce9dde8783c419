package archive

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/peloton/core"
	"github.com/huangsam/peloton/internal/snapshot"
	"github.com/huangsam/peloton/internal/store"
	"github.com/huangsam/peloton/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, time.July, 4, 9, 0, 0, 0, time.UTC)

// demoPortal builds the demo race and records points for its first stage.
func demoPortal(t *testing.T) *store.Store {
	t.Helper()
	s := store.New()
	raceID, err := core.BuildDemo(s, day)
	require.NoError(t, err)
	race, err := s.Race(raceID)
	require.NoError(t, err)
	_, err = core.NewEngine(s).RecordPoints(race.StageIDs[0])
	require.NoError(t, err)
	return s
}

func newSQLiteStore(t *testing.T) *ArchiveStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	as, err := NewArchiveStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = as.Close() })
	return as.(*ArchiveStoreImpl)
}

func encode(t *testing.T, s *store.Store) string {
	t.Helper()
	data, err := snapshot.Encode(s)
	require.NoError(t, err)
	return string(data)
}

func TestArchiveStore_NoneBackend(t *testing.T) {
	as, err := NewArchiveStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, as)

	ctx := context.Background()
	assert.NoError(t, as.Save(ctx, demoPortal(t).Snapshot()))

	snap, err := as.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.SnapshotVersion, snap.Version)
	assert.Empty(t, snap.Races)

	status, err := as.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	assert.NoError(t, as.Close())
}

func TestArchiveStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	as := newSQLiteStore(t)
	portal := demoPortal(t)

	require.NoError(t, as.Save(ctx, portal.Snapshot()))
	snap, err := as.Load(ctx)
	require.NoError(t, err)

	restored := store.New()
	require.NoError(t, restored.Restore(snap))
	assert.JSONEq(t, encode(t, portal), encode(t, restored))

	// Timestamps come back in UTC.
	for _, r := range snap.Results {
		for _, ts := range r.Times {
			assert.Equal(t, time.UTC, ts.Location())
		}
	}
	require.NotEmpty(t, snap.Points)
	assert.NotEmpty(t, snap.Points[0].Entries)
}

func TestArchiveStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	as := newSQLiteStore(t)

	require.NoError(t, as.Save(ctx, demoPortal(t).Snapshot()))

	small := store.New()
	_, err := small.CreateTeam("Solo", "")
	require.NoError(t, err)
	require.NoError(t, as.Save(ctx, small.Snapshot()))

	snap, err := as.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Races)
	assert.Empty(t, snap.Results)
	assert.Empty(t, snap.Points)
	require.Len(t, snap.Teams, 1)
	assert.Equal(t, "Solo", snap.Teams[0].Name)
	assert.Equal(t, 2, snap.Counters[schema.TeamKind])
}

func TestArchiveStore_LoadEmpty(t *testing.T) {
	as := newSQLiteStore(t)
	snap, err := as.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.SnapshotVersion, snap.Version)
	assert.Empty(t, snap.Races)

	// An empty archive restores into an empty portal.
	assert.NoError(t, store.New().Restore(snap))
}

func TestArchiveStore_SaveNil(t *testing.T) {
	as := newSQLiteStore(t)
	assert.Error(t, as.Save(context.Background(), nil))
}

func TestArchiveStore_SaveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	as := newSQLiteStore(t)
	assert.Error(t, as.Save(ctx, demoPortal(t).Snapshot()))
}

func TestArchiveStore_InMemory(t *testing.T) {
	as, err := NewArchiveStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = as.Close() }()

	ctx := context.Background()
	require.NoError(t, as.Save(ctx, demoPortal(t).Snapshot()))
	snap, err := as.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Races)
}

func TestArchiveStore_GetStatus(t *testing.T) {
	as := newSQLiteStore(t)
	pushed := time.Date(2026, time.July, 10, 18, 30, 0, 0, time.UTC)
	as.now = func() time.Time { return pushed }

	status, err := as.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.SchemaVersion)
	assert.True(t, status.LastPushTime.IsZero())
	assert.Equal(t, 0, status.EntityCounts[schema.RaceKind])

	portal := demoPortal(t)
	require.NoError(t, as.Save(context.Background(), portal.Snapshot()))

	status, err = as.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, pushed, status.LastPushTime)
	counts := portal.Len()
	for kind, n := range counts {
		assert.Equal(t, n, status.EntityCounts[kind], kind)
	}
	assert.Equal(t, 1, status.EntityCounts["points"])
	assert.Greater(t, status.TableSizeBytes["database"], int64(0))
}

func TestArchiveStoreCloseNil(t *testing.T) {
	as := &ArchiveStoreImpl{}
	assert.NoError(t, as.Close())
}

func TestNewArchiveStoreErrors(t *testing.T) {
	_, err := NewArchiveStore("oracle", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive backend")

	_, err = NewArchiveStore(schema.MySQLBackend, "not a dsn")
	assert.Error(t, err)
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"simple", "peloton_races", false},
		{"leading underscore", "_meta", false},
		{"digits", "t2", false},
		{"empty", "", true},
		{"leading digit", "2fast", true},
		{"dash", "peloton-races", true},
		{"injection", "races; DROP TABLE riders", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.table)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`peloton_races`", quoteTableName("peloton_races", schema.MySQLBackend))
	assert.Equal(t, `"peloton_races"`, quoteTableName("peloton_races", schema.PostgreSQLBackend))
	assert.Equal(t, `"peloton_races"`, quoteTableName("peloton_races", schema.SQLiteBackend))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))
}

func TestArchiving(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "global.db")
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		Manager = &ArchiveStoreManager{}

		require.NoError(t, InitArchive(schema.SQLiteBackend, dbPath))
		assert.NoError(t, InitArchive(schema.SQLiteBackend, dbPath))
		require.NotNil(t, Manager.GetArchiveStore())

		CloseArchive()
		CloseArchive()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("disabled", func(t *testing.T) {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &ArchiveStoreManager{}

		require.NoError(t, InitArchive("", ""))
		assert.Nil(t, Manager.GetArchiveStore())
		CloseArchive()
	})

	t.Run("bad backend", func(t *testing.T) {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &ArchiveStoreManager{}

		assert.Error(t, InitArchive("oracle", ""))
		assert.Nil(t, Manager.GetArchiveStore())
	})
}

func TestArchiveStoreManagerConcurrency(t *testing.T) {
	mgr := &ArchiveStoreManager{}
	mock := &MockArchiveStore{}
	mgr.Lock()
	mgr.archive = mock
	mgr.Unlock()

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			assert.Same(t, mock, mgr.GetArchiveStore())
		})
	}
	wg.Wait()
}

func TestClearArchive(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "clear.db")
		as, err := NewArchiveStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, as.Close())

		require.NoError(t, ClearArchive(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		// Clearing twice is fine.
		assert.NoError(t, ClearArchive(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite needs path", func(t *testing.T) {
		assert.Error(t, ClearArchive(schema.SQLiteBackend, "", ""))
	})

	t.Run("none", func(t *testing.T) {
		assert.NoError(t, ClearArchive(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, ClearArchive("oracle", "", ""))
	})
}

func TestMockArchiveManager(t *testing.T) {
	store := &MockArchiveStore{}
	store.On("GetStatus").Return(schema.ArchiveStatus{Backend: "sqlite", Connected: true}, nil)
	mgr := &MockArchiveManager{}
	mgr.On("GetArchiveStore").Return(store)

	status, err := mgr.GetArchiveStore().GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	mgr.AssertExpectations(t)
	store.AssertExpectations(t)
}
