package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// sqlSession adapts a reserved *sql.Conn to tabload.Session.
// The *sql.DB is owned by the session and closed with it.
type sqlSession struct {
	driver tabload.Driver
	db     *sql.DB
	conn   *sql.Conn
	tx     *sqlTx
}

func (s *sqlSession) Driver() tabload.Driver { return s.driver }

func (s *sqlSession) Begin(ctx context.Context) (tabload.Tx, error) {
	if s.tx != nil {
		return nil, errors.New("transaction already started")
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	s.tx = &sqlTx{tx: tx}
	return s.tx, nil
}

// Close rolls back an uncommitted transaction and closes the database.
func (s *sqlSession) Close() error {
	var errs []error
	if s.tx != nil && !s.tx.committed {
		if err := s.tx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, err)
		}
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		errs = append(errs, err)
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type sqlTx struct {
	tx        *sql.Tx
	committed bool
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *sqlTx) Commit(_ context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return err
	}
	t.committed = true
	return nil
}

var _ tabload.Session = (*sqlSession)(nil)
