package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/tabload/internal/logging"
	"github.com/vvka-141/tabload/internal/retry"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// A load run uses exactly one connection.
const (
	DefaultMaxConns        = 1
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger tabload.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("postgres %s: %s", strings.ToLower(notice.Severity), notice.Message)
	}
}

// connectPgx opens a pool for connStr and acquires the session's connection.
func connectPgx(ctx context.Context, connStr string, config *tabload.ConnectionConfig, logger tabload.Logger) (*pgxSession, error) {
	return connectPgxWithDialer(ctx, connStr, config, logger, nil, nil)
}

// connectPgxWithDialer is connectPgx with an optional custom dialer. release
// runs when the session closes, or immediately if connecting fails.
func connectPgxWithDialer(ctx context.Context, connStr string, config *tabload.ConnectionConfig, logger tabload.Logger, dial pgconn.DialFunc, release func()) (*pgxSession, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		if release != nil {
			release()
		}
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	configurePool(poolConfig, logger)
	if dial != nil {
		poolConfig.ConnConfig.DialFunc = dial
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		if release != nil {
			release()
		}
		return nil, wrapConnectionError(err, config)
	}

	session, err := newPgxSession(ctx, pool, release)
	if err != nil {
		return nil, wrapConnectionError(err, config)
	}
	return session, nil
}

func retryLogger(logger tabload.Logger, target string) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		logger.Verbose("connect to %s failed (attempt %d): %v; retrying in %s", target, attempt+1, err, delay.Round(time.Millisecond))
	}
}

// StandardConnector implements the Connector interface for PostgreSQL with
// username/password authentication and automatic retry on transient failures.
type StandardConnector struct {
	config        *tabload.ConnectionConfig
	logger        tabload.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
// A nil logger discards connection diagnostics.
func NewStandardConnector(config *tabload.ConnectionConfig, logger tabload.Logger) *StandardConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	executor := retry.NewConnectExecutor(tabload.DriverPostgres).
		WithOnRetry(retryLogger(logger, fmt.Sprintf("%s:%d", config.Host, config.Port)))

	return &StandardConnector{
		config:        config,
		logger:        logger,
		retryExecutor: executor,
	}
}

// Connect opens a session using standard authentication with automatic retry.
func (c *StandardConnector) Connect(ctx context.Context) (tabload.Session, error) {
	var session *pgxSession
	connStr := BuildConnectionString(c.config)

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		session, err = connectPgx(ctx, connStr, c.config, c.logger)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Verbose("connected to postgres at %s:%d/%s", c.config.Host, c.config.Port, c.config.Database)
	return session, nil
}

// NewConnectorFactory returns a factory that builds the Connector for a
// ConnectionConfig, logging connection diagnostics to logger.
func NewConnectorFactory(logger tabload.Logger) func(*tabload.ConnectionConfig) (tabload.Connector, error) {
	return func(config *tabload.ConnectionConfig) (tabload.Connector, error) {
		return NewConnector(config, logger)
	}
}

// NewConnector creates the appropriate Connector for the configured driver
// and, for PostgreSQL, the configured AuthMethod.
func NewConnector(config *tabload.ConnectionConfig, logger tabload.Logger) (tabload.Connector, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	switch config.Driver {
	case tabload.DriverPostgres:
	case tabload.DriverSQLite, tabload.DriverMySQL, tabload.DriverMSSQL:
		if config.AuthMethod != tabload.AuthMethodStandard {
			return nil, fmt.Errorf("%s auth is only supported for postgres: %w", config.AuthMethod, tabload.ErrInvalidConfig)
		}
		return NewSQLConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported driver %q: %w", config.Driver, tabload.ErrInvalidConfig)
	}

	switch config.AuthMethod {
	case tabload.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case tabload.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case tabload.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case tabload.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, tabload.ErrInvalidConfig)
	}
}

// wrapConnectionError turns common driver failures into an actionable message.
// The original error stays in the chain.
func wrapConnectionError(err error, config *tabload.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - The %s server is not running
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, addr, config.Driver, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, config.Host, err)

	case strings.Contains(errStr, "password authentication failed") ||
		strings.Contains(errStr, "access denied") ||
		strings.Contains(errStr, "login failed"):
		return fmt.Errorf(`authentication failed for database "%s"

Check --user and the password in config.yaml, $PGPASSWORD or the connection string.

Original error: %w`, config.Database, err)

	case strings.Contains(errStr, "does not exist") || strings.Contains(errStr, "unknown database"):
		return fmt.Errorf(`database "%s" does not exist

tabload creates tables, not databases. Create the database first.

Original error: %w`, config.Database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS connection error

Server requires SSL but --sslmode is wrong, or certificate verification failed (try --sslmode=require).

Original error: %w`, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`too many connections to database "%s"

Original error: %w`, config.Database, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(config *tabload.ConnectionConfig, logger tabload.Logger) (tabload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *tabload.ConnectionConfig, logger tabload.Logger) (tabload.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", tabload.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U): %w", tabload.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID token provider.
// If tenant, client and secret are all set, Service Principal auth is used;
// otherwise the DefaultAzureCredential chain.
func newAzureConnector(config *tabload.ConnectionConfig, logger tabload.Logger) (tabload.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
			AzurePostgreSQLScope,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider(AzurePostgreSQLScope)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}
