package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Input errors
	ErrNotFound       ErrorCode = "input_not_found"
	ErrFormat         ErrorCode = "input_format_invalid"
	ErrEmptyInput     ErrorCode = "input_empty"
	ErrLengthMismatch ErrorCode = "length_mismatch"
	ErrReadInput      ErrorCode = "read_input_failed"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrBindFlags     ErrorCode = "bind_flags_failed"
	ErrReadConfig    ErrorCode = "read_config_failed"

	// Rendering errors
	ErrRender      ErrorCode = "render_failed"
	ErrWriteOutput ErrorCode = "write_output_failed"

	// Run lock errors
	ErrAlreadyRunning ErrorCode = "already_running"

	// Catalog errors
	ErrInitCatalog   ErrorCode = "init_catalog_failed"
	ErrRecordCatalog ErrorCode = "record_catalog_failed"
	ErrCloseCatalog  ErrorCode = "close_catalog_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrNotFound:        "Input file not found",
	ErrFormat:          "Malformed input line",
	ErrEmptyInput:      "Input is empty",
	ErrLengthMismatch:  "Paired sequences differ in length",
	ErrReadInput:       "Failed to read input",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read config file",
	ErrRender:          "Failed to render chart",
	ErrWriteOutput:     "Failed to write chart image",
	ErrAlreadyRunning:  "Another instance is already writing to the output directory",
	ErrInitCatalog:     "Failed to initialize catalog",
	ErrRecordCatalog:   "Failed to record artifact in catalog",
	ErrCloseCatalog:    "Failed to close catalog",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
