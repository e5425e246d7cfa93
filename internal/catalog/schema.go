package catalog

import (
	"database/sql"

	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS artifacts (
	       id          INTEGER PRIMARY KEY AUTOINCREMENT,
	       created_at  INTEGER NOT NULL,
	       path        TEXT NOT NULL,
	       kind        TEXT NOT NULL,
	       title       TEXT NOT NULL,
	       series      INTEGER NOT NULL CHECK (series >= 0),
	       points      INTEGER NOT NULL CHECK (points >= 0)
	   );
	   CREATE TABLE IF NOT EXISTS inputs (
	       artifact_id  INTEGER NOT NULL REFERENCES artifacts(id) ON DELETE CASCADE,
	       position     INTEGER NOT NULL,
	       path         TEXT NOT NULL,
	       samples      INTEGER NOT NULL CHECK (typeof(samples) = 'integer'),
	       total_faults INTEGER NOT NULL CHECK (typeof(total_faults) = 'integer'),
	       cpu_total    INTEGER NOT NULL CHECK (typeof(cpu_total) = 'integer'),
	       PRIMARY KEY (artifact_id, position)
	   );`

	insertArtifactSQL = `
    INSERT INTO artifacts (
        created_at, path, kind, title, series, points
    ) VALUES (?, ?, ?, ?, ?, ?)`

	insertInputSQL = `
    INSERT INTO inputs (
        artifact_id, position, path, samples, total_faults, cpu_total
    ) VALUES (?, ?, ?, ?, ?, ?)`

	selectArtifactsSQL = `
    SELECT id, created_at, path, kind, title, series, points
    FROM artifacts
    ORDER BY id`

	selectInputsSQL = `
    SELECT artifact_id, path, samples, total_faults, cpu_total
    FROM inputs
    ORDER BY artifact_id, position`
)

// InitSchema creates a new database schema with the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	log.Debug().Msg("Creating catalog database...")

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	// Track transaction state
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				if !errors.Is(err, sql.ErrTxDone) {
					log.Debug().Err(err).Msg("Failed to rollback transaction")
				}
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			SQL   string
		}{
			Error: err.Error(),
			SQL:   createTablesSQL,
		})
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			Phase string
		}{
			Error: err.Error(),
			Phase: "record_version",
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Info().
		Int("version", SchemaVersion).
		Msg("Catalog schema initialized")

	return nil
}

// GetSchemaVersion returns the current schema version, 0 for a new database
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := TableExists(db, "schema_versions")
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Error string
		}{
			Phase: "get_version",
			Error: err.Error(),
		})
	}

	return version, nil
}

// TableExists checks if a table exists
func TableExists(db *sql.DB, tableName string) (bool, error) {
	errFactory := errors.New()
	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name=?
        )
    `, tableName).Scan(&exists)
	if err != nil {
		return false, errFactory.WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Table string
			Error string
		}{
			Phase: "check_table_exists",
			Table: tableName,
			Error: err.Error(),
		})
	}
	return exists, nil
}
