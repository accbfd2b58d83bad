package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/tabload/internal/checksum"
	"github.com/vvka-141/tabload/internal/schema"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// LoadService implements the Loader interface.
// Thread-Safety: safe for concurrent Load() calls; each call owns its own
// session, transaction and run state.
type LoadService struct {
	connectorFactory func(*tabload.ConnectionConfig) (tabload.Connector, error)
	reader           tabload.TableReader
	logger           tabload.Logger
	now              func() time.Time
	newRunID         func() string
}

// NewLoadService creates a new LoadService with all dependencies injected.
// Panics on nil dependencies.
func NewLoadService(
	connectorFactory func(*tabload.ConnectionConfig) (tabload.Connector, error),
	reader tabload.TableReader,
	logger tabload.Logger,
) *LoadService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if reader == nil {
		panic("reader cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &LoadService{
		connectorFactory: connectorFactory,
		reader:           reader,
		logger:           logger,
		now:              time.Now,
		newRunID:         func() string { return uuid.New().String() },
	}
}

// Load reads cfg.SourcePath into a typed table, creates cfg.TableName if it
// does not exist and inserts every row inside one transaction.
//
// The session is closed on every exit path. Nothing is rolled back
// explicitly: closing a session with an uncommitted transaction discards it.
func (s *LoadService) Load(ctx context.Context, cfg tabload.LoadConfig) (result *tabload.LoadResult, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dialect, err := schema.DialectFor(cfg.Connection.Driver)
	if err != nil {
		return nil, err
	}
	dialect = dialect.WithQuotedIdentifiers(cfg.QuoteIdentifiers)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	started := s.now()
	runID := s.newRunID()
	state := newRunState(runID, s.logger)
	defer func() {
		if err != nil {
			state.fail()
			s.logger.Error("[%s] load of %s into %s failed in state %s", runID, cfg.SourcePath, cfg.TableName, state.current)
		}
	}()

	s.logger.Verbose("[%s] loading %s into table %s (%s)", runID, cfg.SourcePath, cfg.TableName, cfg.Connection.Driver)

	session, err := s.openSession(ctx, &cfg.Connection)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			s.logger.Verbose("[%s] closing session: %v", runID, closeErr)
		}
		s.logger.Verbose("[%s] session closed", runID)
	}()

	if err := state.advance(tabload.StateReading); err != nil {
		return nil, err
	}
	table, err := s.reader.Read(cfg.SourcePath, tabload.TableReaderOptions{Delimiter: cfg.Delimiter})
	if err != nil {
		return nil, err
	}
	s.logColumns(runID, dialect, table)
	if unsafe := dialect.UnsafeIdentifiers(table, cfg.TableName); len(unsafe) > 0 {
		s.logger.Verbose("[%s] identifiers %q are emitted unquoted; pass --quote-identifiers if the database rejects them", runID, unsafe)
	}

	tx, err := session.Begin(ctx)
	if err != nil {
		return nil, &tabload.ConnectionError{Driver: cfg.Connection.Driver, Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}

	createSQL := dialect.CreateTableStatement(table, cfg.TableName)
	s.logger.Verbose("[%s] %s", runID, createSQL)
	if err := tx.Exec(ctx, createSQL); err != nil {
		return nil, &tabload.SchemaCreationError{Table: cfg.TableName, Statement: createSQL, Err: err}
	}
	if err := state.advance(tabload.StateSchemaCreated); err != nil {
		return nil, err
	}

	if err := state.advance(tabload.StateInserting); err != nil {
		return nil, err
	}
	inserted, err := s.insertRows(ctx, tx, dialect, table, cfg.TableName, runID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &tabload.CommitError{Table: cfg.TableName, Err: err}
	}
	if err := state.advance(tabload.StateCommitted); err != nil {
		return nil, err
	}

	elapsed := s.now().Sub(started)
	s.logger.Info("[%s] committed %d row(s) into %s in %s", runID, inserted, cfg.TableName, elapsed)

	return &tabload.LoadResult{
		RunID:           runID,
		TableName:       cfg.TableName,
		Driver:          cfg.Connection.Driver,
		Columns:         table.Columns,
		CreateStatement: createSQL,
		SourceChecksum:  table.Checksum,
		RowsInserted:    inserted,
		State:           state.current,
		Elapsed:         elapsed,
	}, nil
}

func (s *LoadService) openSession(ctx context.Context, connConfig *tabload.ConnectionConfig) (tabload.Session, error) {
	connector, err := s.connectorFactory(connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	session, err := connector.Connect(ctx)
	if err != nil {
		return nil, &tabload.ConnectionError{Driver: connConfig.Driver, Err: err}
	}
	return session, nil
}

// insertRows executes one insert per row in table order and stops at the
// first rejected row.
func (s *LoadService) insertRows(ctx context.Context, tx tabload.Tx, dialect schema.Dialect, table *tabload.Table, tableName, runID string) (int, error) {
	insertSQL := dialect.InsertStatement(table, tableName)
	s.logger.Verbose("[%s] %s", runID, insertSQL)

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return i, &tabload.RowInsertError{Table: tableName, Row: i + 1, Err: err}
		}
		s.logger.Verbose("[%s] row %d: %v", runID, i+1, []any(row))
		if err := tx.Exec(ctx, insertSQL, row...); err != nil {
			return i, &tabload.RowInsertError{Table: tableName, Row: i + 1, Err: err}
		}
	}
	return len(table.Rows), nil
}

func (s *LoadService) logColumns(runID string, dialect schema.Dialect, table *tabload.Table) {
	s.logger.Verbose("[%s] read %d row(s), %d column(s), sha256 %s (normalized %s)", runID, len(table.Rows), len(table.Columns),
		checksum.Short(table.Checksum), checksum.Short(table.NormalizedChecksum))
	for _, c := range table.Columns {
		s.logger.Verbose("[%s]   %s: %s -> %s", runID, c.Name, c.Type, dialect.TypeName(c.Type))
	}
}

var _ tabload.Loader = (*LoadService)(nil)
