package tabload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess              = 0  // Load committed
	ExitGeneralError         = 1  // Unknown or unclassified error
	ExitUsageError           = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic                = 3  // Internal panic (unexpected crash)
	ExitConfigError          = 10 // Invalid configuration
	ExitConnectionError      = 11 // Failed to connect to database
	ExitSourceReadError      = 12 // Source file missing or unreadable
	ExitSchemaInferenceError = 13 // Column type could not be inferred
	ExitSchemaCreationError  = 14 // Creation statement rejected
	ExitRowInsertError       = 15 // A row was rejected
	ExitCommitError          = 16 // Commit rejected
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first connect retry.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between connect retries.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connect retries.
	DefaultRetryMaxAttempts = 3

	// MaxErrorPreviewLength caps SQL echoed back in error messages.
	MaxErrorPreviewLength = 200

	// DefaultConfigFile is the config file looked up when --config is not given.
	DefaultConfigFile = "config.yaml"

	// DefaultDelimiter separates fields when none is configured.
	DefaultDelimiter = ','

	// DefaultPostgresPort is used when no port is configured.
	DefaultPostgresPort = 5432

	// AppName is reported to PostgreSQL as application_name.
	AppName = "tabload"
)
