package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
	"modernc.org/sqlite"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// PostgreSQL SQLSTATE codes treated as transient outside the always-transient
// classes 08, 53 and 57.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03"
)

// MySQL server error numbers.
const (
	mysqlTooManyConnections     = 1040
	mysqlUserTooManyConnections = 1203
	mysqlLockWaitTimeout        = 1205
	mysqlDeadlock               = 1213
	mysqlServerShutdown         = 1053
)

// SQL Server error numbers, including the Azure SQL throttling family.
var mssqlTransientNumbers = map[int32]struct{}{
	1205:  {}, // deadlock victim
	4221:  {}, // login timeout waiting on HADR
	10928: {}, // resource limit reached
	10929: {}, // resource limit reached
	40197: {}, // service error processing request
	40501: {}, // service busy
	40613: {}, // database unavailable
	49918: {}, // not enough resources
	49919: {}, // too many create/update operations
	49920: {}, // too many operations
}

// SQLite primary result codes.
const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

// transientPatterns match driver messages that only carry text.
var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"connection failure",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"server closed the connection",
	"unexpected eof",
	"bad connection",
	"database is locked",
}

// NewClassifier returns the error classifier for driver.
func NewClassifier(driver tabload.Driver) tabload.ErrorClassifier {
	if driver == tabload.DriverPostgres {
		return NewPostgreSQLErrorClassifier()
	}
	return NewSQLErrorClassifier()
}

// PostgreSQLErrorClassifier implements ErrorClassifier for pgx errors.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a new PostgreSQL error classifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientSQLState(pgErr.Code)
	}

	return isNetworkError(err) || matchesTransientPattern(err)
}

func isTransientSQLState(code string) bool {
	for _, class := range []string{"08", "53", "57"} {
		if strings.HasPrefix(code, class) {
			return true
		}
	}
	switch code {
	case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
		return true
	}
	return false
}

// SQLErrorClassifier implements ErrorClassifier for the database/sql
// destinations: MySQL, SQL Server and SQLite.
type SQLErrorClassifier struct{}

// NewSQLErrorClassifier creates a new classifier for database/sql drivers.
func NewSQLErrorClassifier() *SQLErrorClassifier {
	return &SQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *SQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlTooManyConnections, mysqlUserTooManyConnections, mysqlLockWaitTimeout, mysqlDeadlock, mysqlServerShutdown:
			return true
		}
		return false
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		_, ok := mssqlTransientNumbers[msErr.Number]
		return ok
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		primary := liteErr.Code() & 0xff
		return primary == sqliteBusy || primary == sqliteLocked
	}

	return isNetworkError(err) || matchesTransientPattern(err)
}

// isNetworkError reports refused, reset and unreachable connections and
// temporary DNS failures.
func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ENETUNREACH, syscall.EHOSTUNREACH} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}

	return false
}

func matchesTransientPattern(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
