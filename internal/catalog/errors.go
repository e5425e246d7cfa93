package catalog

import "codeberg.org/mutker/faultplot/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("catalog_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("catalog_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("catalog_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("catalog_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("catalog_transaction_failed")

	// Storage Errors
	ErrStorageInit  = errors.ErrInitCatalog
	ErrStorageClose = errors.ErrCloseCatalog
	ErrQueryFailed  = errors.ErrorCode("catalog_query_failed")

	// Recording Errors
	ErrRecordFailed   = errors.ErrRecordCatalog
	ErrInvalidRecord  = errors.ErrorCode("catalog_invalid_record")
	ErrOperationAbort = errors.ErrorCode("catalog_operation_aborted")
)
