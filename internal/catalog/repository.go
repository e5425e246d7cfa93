package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

type repository struct {
	db     *sql.DB
	logger logger.Logger
	mu     sync.Mutex
}

func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := ValidateAndUpdateSchema(db, cfg.DBPath, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Catalog repository initialized")

	return &repository{
		db:     db,
		logger: log,
	}, nil
}

func (r *repository) Insert(ctx context.Context, entry *Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errFactory.Wrap(ErrTransactionFailed, err)
	}

	rollback := func(cause error) (int64, error) {
		if err := tx.Rollback(); err != nil {
			r.logger.Error().Err(err).Msg("Failed to roll back transaction")
		}
		return 0, errFactory.Wrap(ErrTransactionFailed, cause)
	}

	res, err := tx.ExecContext(ctx, insertArtifactSQL,
		entry.CreatedAt.Unix(),
		entry.Path,
		entry.Kind,
		entry.Title,
		int64(entry.Series),
		int64(entry.Points),
	)
	if err != nil {
		return rollback(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return rollback(err)
	}

	stmt, err := tx.PrepareContext(ctx, insertInputSQL)
	if err != nil {
		return rollback(err)
	}
	defer stmt.Close()

	for i, in := range entry.Inputs {
		if _, err := stmt.ExecContext(ctx,
			id,
			int64(i),
			in.Path,
			int64(in.Samples),
			in.TotalFaults,
			in.CPUTotal,
		); err != nil {
			return rollback(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errFactory.Wrap(ErrTransactionFailed, err)
	}

	return id, nil
}

func (r *repository) List(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	rows, err := r.db.QueryContext(ctx, selectArtifactsSQL)
	if err != nil {
		return nil, errFactory.Wrap(ErrQueryFailed, err)
	}
	defer rows.Close()

	var entries []Entry
	index := make(map[int64]int)
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &created, &e.Path, &e.Kind, &e.Title, &e.Series, &e.Points); err != nil {
			return nil, errFactory.Wrap(ErrQueryFailed, err)
		}
		e.CreatedAt = time.Unix(created, 0)
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrQueryFailed, err)
	}

	inRows, err := r.db.QueryContext(ctx, selectInputsSQL)
	if err != nil {
		return nil, errFactory.Wrap(ErrQueryFailed, err)
	}
	defer inRows.Close()

	for inRows.Next() {
		var (
			id int64
			in Input
		)
		if err := inRows.Scan(&id, &in.Path, &in.Samples, &in.TotalFaults, &in.CPUTotal); err != nil {
			return nil, errFactory.Wrap(ErrQueryFailed, err)
		}
		if i, ok := index[id]; ok {
			entries[i].Inputs = append(entries[i].Inputs, in)
		}
	}
	if err := inRows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrQueryFailed, err)
	}

	return entries, nil
}

func (r *repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Checkpoint WAL and cleanup on close
	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errors.New().WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "checkpoint_wal",
			Error: err.Error(),
		})
	}

	if err := r.db.Close(); err != nil {
		return errors.New().WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "close_database",
			Error: err.Error(),
		})
	}

	r.logger.Info().Msg("Catalog repository closed")

	return nil
}
