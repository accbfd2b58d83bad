package tabload

import "context"

// Loader is the main interface for loading a flat file into a table.
// Implementations own the connection and the transaction for the run.
type Loader interface {
	// Load reads cfg.SourcePath, creates cfg.TableName if missing and inserts
	// every row in one transaction. Nothing is committed unless all rows succeed.
	Load(ctx context.Context, cfg LoadConfig) (*LoadResult, error)
}

// TableReaderOptions configures how a flat file is parsed.
type TableReaderOptions struct {
	Delimiter rune
}

// TableReader parses a flat file into an in-memory Table.
type TableReader interface {
	// Read returns a *SourceReadError when the file cannot be read and a
	// *SchemaInferenceError when no column type can be inferred.
	Read(path string, opts TableReaderOptions) (*Table, error)
}
