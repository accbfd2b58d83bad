package tabload

import "context"

// Connector is a unified interface for opening a destination session.
// Different implementations handle the supported drivers and authentication
// methods (standard credentials, cloud IAM, etc.).
type Connector interface {
	// Connect opens a session. The caller must Close it on every exit path.
	Connect(ctx context.Context) (Session, error)
}

// Session is a scoped destination connection owned by one load run.
//
// Close releases the connection. If a transaction was begun and not
// committed, Close discards it.
type Session interface {
	// Driver identifies the SQL dialect spoken by the session.
	Driver() Driver

	// Begin starts the run's transaction.
	Begin(ctx context.Context) (Tx, error)

	Close() error
}

// Tx is the single transaction of a load run.
type Tx interface {
	// Exec executes one statement with positionally bound arguments.
	Exec(ctx context.Context, sql string, args ...any) error

	Commit(ctx context.Context) error
}
