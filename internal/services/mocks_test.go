package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vvka-141/tabload/pkg/tabload"
)

type execCall struct {
	sql  string
	args []any
}

// mockTx records statements. rejectInsert fails the n-th INSERT (1-based).
type mockTx struct {
	execs        []execCall
	createErr    error
	rejectInsert int
	insertErr    error
	commitErr    error
	committed    bool
	inserts      int
}

func (m *mockTx) Exec(_ context.Context, sql string, args ...any) error {
	m.execs = append(m.execs, execCall{sql: sql, args: args})
	if strings.HasPrefix(sql, "INSERT") {
		m.inserts++
		if m.inserts == m.rejectInsert {
			return m.insertErr
		}
		return nil
	}
	return m.createErr
}

func (m *mockTx) Commit(_ context.Context) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}

// insertedRows returns the arguments of the successful inserts.
func (m *mockTx) insertedRows() [][]any {
	var rows [][]any
	n := 0
	for _, e := range m.execs {
		if !strings.HasPrefix(e.sql, "INSERT") {
			continue
		}
		n++
		if n == m.rejectInsert {
			continue
		}
		rows = append(rows, e.args)
	}
	return rows
}

type mockSession struct {
	driver   tabload.Driver
	tx       *mockTx
	beginErr error
	closed   int
}

func (m *mockSession) Driver() tabload.Driver { return m.driver }

func (m *mockSession) Begin(_ context.Context) (tabload.Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

func (m *mockSession) Close() error {
	m.closed++
	return nil
}

type mockConnector struct {
	session *mockSession
	err     error
}

func (m *mockConnector) Connect(_ context.Context) (tabload.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

type mockReader struct {
	table *tabload.Table
	err   error
	calls int
}

func (m *mockReader) Read(_ string, _ tabload.TableReaderOptions) (*tabload.Table, error) {
	m.calls++
	return m.table, m.err
}

type recordingLogger struct {
	mu      sync.Mutex
	verbose []string
	info    []string
	errors  []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = append(l.verbose, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info = append(l.info, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) verboseContaining(s string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, line := range l.verbose {
		if strings.Contains(line, s) {
			out = append(out, line)
		}
	}
	return out
}
