package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"  // register "mysql"
	_ "github.com/microsoft/go-mssqldb" // register "sqlserver"
	"github.com/microsoft/go-mssqldb/azuread"
	_ "modernc.org/sqlite" // register "sqlite"

	"github.com/vvka-141/tabload/internal/logging"
	"github.com/vvka-141/tabload/internal/retry"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// SQLConnector implements the Connector interface for the database/sql
// destinations: SQLite, MySQL and SQL Server.
type SQLConnector struct {
	config        *tabload.ConnectionConfig
	driver        tabload.Driver
	driverName    string
	dsn           string
	logger        tabload.Logger
	retryExecutor *retry.Executor
}

// NewSQLConnector creates a connector for a non-PostgreSQL driver.
// For SQL Server, a DSN containing "fedauth=" selects the Azure AD driver.
func NewSQLConnector(config *tabload.ConnectionConfig, logger tabload.Logger) (*SQLConnector, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	dsn, err := BuildDSN(config)
	if err != nil {
		return nil, err
	}

	driverName, err := sqlDriverName(config.Driver, dsn)
	if err != nil {
		return nil, err
	}

	executor := retry.NewConnectExecutor(config.Driver).
		WithOnRetry(retryLogger(logger, string(config.Driver)))

	return &SQLConnector{
		config:        config,
		driver:        config.Driver,
		driverName:    driverName,
		dsn:           dsn,
		logger:        logger,
		retryExecutor: executor,
	}, nil
}

func sqlDriverName(driver tabload.Driver, dsn string) (string, error) {
	switch driver {
	case tabload.DriverSQLite:
		return "sqlite", nil
	case tabload.DriverMySQL:
		return "mysql", nil
	case tabload.DriverMSSQL:
		if strings.Contains(strings.ToLower(dsn), "fedauth=") {
			return azuread.DriverName, nil
		}
		return "sqlserver", nil
	default:
		return "", fmt.Errorf("driver %q is not served by database/sql: %w", driver, tabload.ErrInvalidConfig)
	}
}

// Connect opens the database and reserves the single connection the session
// runs on.
func (c *SQLConnector) Connect(ctx context.Context) (tabload.Session, error) {
	var session *sqlSession

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		sqldb, err := sql.Open(c.driverName, c.dsn)
		if err != nil {
			return fmt.Errorf("failed to open %s database: %w", c.driver, err)
		}
		sqldb.SetMaxOpenConns(1)
		sqldb.SetConnMaxLifetime(5 * time.Minute)

		conn, err := sqldb.Conn(ctx)
		if err != nil {
			sqldb.Close()
			return fmt.Errorf("failed to connect to %s database: %w", c.driver, err)
		}
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			sqldb.Close()
			return fmt.Errorf("failed to ping %s database: %w", c.driver, err)
		}

		session = &sqlSession{driver: c.driver, db: sqldb, conn: conn}
		return nil
	})
	if err != nil {
		return nil, wrapConnectionError(err, c.config)
	}

	c.logger.Verbose("connected to %s (%s driver)", c.driver, c.driverName)
	return session, nil
}
