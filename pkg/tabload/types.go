package tabload

import (
	"errors"
	"fmt"
	"time"
)

// ColumnType is the value-domain classification assigned to a column by
// scanning all of its values.
type ColumnType int

const (
	ColumnTypeText ColumnType = iota
	ColumnTypeInteger
	ColumnTypeFloat
	ColumnTypeBoolean
	ColumnTypeTimestamp
)

// String returns a human-readable name for logs and previews.
func (t ColumnType) String() string {
	switch t {
	case ColumnTypeText:
		return "Text"
	case ColumnTypeInteger:
		return "Integer"
	case ColumnTypeFloat:
		return "Float"
	case ColumnTypeBoolean:
		return "Boolean"
	case ColumnTypeTimestamp:
		return "Timestamp"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Column is a named, typed column of an in-memory Table.
// Column order is significant: it determines statement column order.
type Column struct {
	Name string
	Type ColumnType
}

// Row holds one value per column, positionally aligned with Table.Columns.
// Values are int64, float64, bool, time.Time, string or nil.
type Row []any

// Table is the in-memory result of reading a flat file.
// It is built once per run and not mutated afterwards.
type Table struct {
	Columns []Column
	Rows    []Row

	// Checksum is the SHA-256 of the source bytes. NormalizedChecksum ignores
	// BOM, line endings and trailing newlines.
	Checksum           string
	NormalizedChecksum string
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks that every row has exactly len(Columns) values.
func (t *Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d values, expected %d", i+1, len(row), len(t.Columns))
		}
	}
	return nil
}

// Driver names a destination database family.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverMySQL    Driver = "mysql"
	DriverMSSQL    Driver = "mssql"
)

// ParseDriver normalizes user input into a Driver.
// An empty string selects PostgreSQL.
func ParseDriver(s string) (Driver, error) {
	switch s {
	case "", "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	case "mssql", "sqlserver":
		return DriverMSSQL, nil
	default:
		return "", fmt.Errorf("unsupported driver %q: %w", s, ErrInvalidConfig)
	}
}

// AuthMethod represents the type of authentication to use for PostgreSQL.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ParseAuthMethod maps config file spellings onto an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return 0, fmt.Errorf("unknown auth method %q: %w", s, ErrInvalidConfig)
	}
}

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Driver Driver

	// DSN is a driver-native connection string. For PostgreSQL it is rebuilt
	// from the fields below; for the other drivers it is used as-is.
	DSN string

	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	AuthMethod AuthMethod

	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	AWSRegion      string
	GoogleInstance string

	// If all three are provided, Service Principal authentication is used.
	// Otherwise DefaultAzureCredential is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// LoadConfig contains all parameters needed for a single load run.
type LoadConfig struct {
	// SourcePath is the delimited flat file to load.
	SourcePath string

	// TableName is the destination table.
	TableName string

	// Delimiter separates fields in the source file. Zero means ','.
	Delimiter rune

	// QuoteIdentifiers quotes table and column names in generated SQL.
	QuoteIdentifiers bool

	Connection ConnectionConfig

	// Timeout bounds the whole run. Zero means no deadline.
	Timeout time.Duration

	Verbose bool
}

// Validate checks that the LoadConfig has all required fields.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}
	if c.TableName == "" {
		errs = append(errs, fmt.Errorf("TableName is required: %w", ErrInvalidConfig))
	}
	if c.Connection.Driver != DriverPostgres && c.Connection.DSN == "" {
		errs = append(errs, fmt.Errorf("connection string is required for driver %q: %w", c.Connection.Driver, ErrInvalidConfig))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// LoadState is a stage of a load run.
type LoadState int

const (
	StateIdle LoadState = iota
	StateReading
	StateSchemaCreated
	StateInserting
	StateCommitted
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateReading:
		return "Reading"
	case StateSchemaCreated:
		return "SchemaCreated"
	case StateInserting:
		return "Inserting"
	case StateCommitted:
		return "Committed"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s LoadState) Terminal() bool {
	return s == StateCommitted || s == StateFailed
}

// LoadResult summarizes a successful run.
type LoadResult struct {
	RunID           string
	TableName       string
	Driver          Driver
	Columns         []Column
	CreateStatement string
	SourceChecksum  string
	RowsInserted    int
	State           LoadState
	Elapsed         time.Duration
}
