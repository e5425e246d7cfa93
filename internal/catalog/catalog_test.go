package catalog_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/faultplot/internal/catalog"
	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() *catalog.Entry {
	return &catalog.Entry{
		CreatedAt: time.Unix(1700000000, 0),
		Path:      "extra/case_study_1_work_1_2_3_4.png",
		Kind:      "combined",
		Title:     "Accumulated Page Faults for Work Processes 1, 2, 3, and 4",
		Series:    2,
		Points:    7,
		Inputs: []catalog.Input{
			{Path: "data/profile1.data", Samples: 3, TotalFaults: 4, CPUTotal: 15},
			{Path: "data/profile2.data", Samples: 4, TotalFaults: 14, CPUTotal: 4},
		},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := catalog.Config{DBPath: filepath.Join(t.TempDir(), "nested", "catalog.db"), Enabled: true}

	repo, err := catalog.NewRepository(cfg, logger.Global())
	require.NoError(t, err)

	id, err := repo.Insert(ctx, sampleEntry())
	require.NoError(t, err)
	assert.Positive(t, id)

	second := sampleEntry()
	second.Path = "case_study_2_work_5.png"
	second.Inputs = nil
	_, err = repo.Insert(ctx, second)
	require.NoError(t, err)

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	want := sampleEntry()
	want.ID = id
	assert.Equal(t, *want, entries[0])
	assert.Equal(t, "case_study_2_work_5.png", entries[1].Path)
	assert.Empty(t, entries[1].Inputs)

	require.NoError(t, repo.Close())
}

func TestRepositoryReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	cfg := catalog.Config{DBPath: filepath.Join(t.TempDir(), "catalog.db"), Enabled: true}

	repo, err := catalog.NewRepository(cfg, logger.Global())
	require.NoError(t, err)
	_, err = repo.Insert(ctx, sampleEntry())
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = catalog.NewRepository(cfg, logger.Global())
	require.NoError(t, err)
	defer repo.Close()

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSchemaVersionMismatchRecreates(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
        CREATE TABLE schema_versions (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL);
        INSERT INTO schema_versions (version, applied_at) VALUES (99, datetime('now'));
        CREATE TABLE artifacts (stale INTEGER);
    `)
	require.NoError(t, err)

	version, err := catalog.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 99, version)

	require.NoError(t, catalog.ValidateAndUpdateSchema(db, dbPath, logger.Global()))

	version, err = catalog.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, catalog.SchemaVersion, version)

	exists, err := catalog.TableExists(db, "inputs")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, db.Close())

	backups, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestServiceDisabled(t *testing.T) {
	rec, err := catalog.NewService(catalog.Config{DBPath: "unused.db"}, logger.Global())
	require.NoError(t, err)

	assert.NoError(t, rec.Record(context.Background(), sampleEntry()))
	assert.NoError(t, rec.Close())
}

func TestServiceInvalidConfig(t *testing.T) {
	_, err := catalog.NewService(catalog.Config{Enabled: true}, logger.Global())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, catalog.ErrInvalidDBPath))
}

func TestServiceRecord(t *testing.T) {
	cfg := catalog.Config{DBPath: filepath.Join(t.TempDir(), "catalog.db"), Enabled: true}

	rec, err := catalog.NewService(cfg, logger.Global())
	require.NoError(t, err)

	entry := sampleEntry()
	require.NoError(t, rec.Record(context.Background(), entry))
	assert.Positive(t, entry.ID)

	err = rec.Record(context.Background(), &catalog.Entry{})
	assert.True(t, errors.HasCode(err, catalog.ErrInvalidRecord))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = rec.Record(ctx, sampleEntry())
	assert.True(t, errors.HasCode(err, catalog.ErrOperationAbort))

	require.NoError(t, rec.Close())
}
