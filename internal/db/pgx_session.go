package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// pgxSession adapts a single connection acquired from *pgxpool.Pool to
// tabload.Session. The pool is owned by the session and closed with it.
//
// Thread-Safety: NOT safe for concurrent use; a load run has one flow of control.
type pgxSession struct {
	pool    *pgxpool.Pool
	conn    *pgxpool.Conn
	tx      *pgxTx
	release func()
}

func newPgxSession(ctx context.Context, pool *pgxpool.Pool, release func()) (*pgxSession, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		if release != nil {
			release()
		}
		return nil, err
	}
	return &pgxSession{pool: pool, conn: conn, release: release}, nil
}

func (s *pgxSession) Driver() tabload.Driver { return tabload.DriverPostgres }

// Begin starts the run's transaction on the session's connection.
func (s *pgxSession) Begin(ctx context.Context) (tabload.Tx, error) {
	if s.tx != nil {
		return nil, errors.New("transaction already started")
	}
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	s.tx = &pgxTx{tx: tx}
	return s.tx, nil
}

// Close rolls back an uncommitted transaction and releases the connection.
func (s *pgxSession) Close() error {
	var err error
	if s.tx != nil && !s.tx.committed {
		err = s.tx.tx.Rollback(context.Background())
		if errors.Is(err, pgx.ErrTxClosed) {
			err = nil
		}
	}
	s.conn.Release()
	s.pool.Close()
	if s.release != nil {
		s.release()
	}
	return err
}

type pgxTx struct {
	tx        pgx.Tx
	committed bool
}

func (t *pgxTx) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := t.tx.Exec(ctx, sql, args...)
	return err
}

func (t *pgxTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return err
	}
	t.committed = true
	return nil
}

var _ tabload.Session = (*pgxSession)(nil)
