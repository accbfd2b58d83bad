package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"

	"github.com/vvka-141/tabload/internal/logging"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// GoogleCloudSQLConnector implements the Connector interface for Google Cloud
// SQL using IAM database authentication via the Cloud SQL Go Connector.
// The dialer lives as long as the returned session and is closed with it.
type GoogleCloudSQLConnector struct {
	config   *tabload.ConnectionConfig
	instance string
	logger   tabload.Logger
}

// NewGoogleCloudSQLConnector creates a connector for Google Cloud SQL IAM authentication.
// instance is the instance connection name in format: project:region:instance
func NewGoogleCloudSQLConnector(config *tabload.ConnectionConfig, instance string, logger tabload.Logger) *GoogleCloudSQLConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &GoogleCloudSQLConnector{
		config:   config,
		instance: instance,
		logger:   logger,
	}
}

// Connect opens a session through the Cloud SQL dialer, which handles
// authentication and TLS.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (tabload.Session, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s dbname=%s sslmode=disable application_name=%s",
		c.instance,
		c.config.Username,
		c.config.Database,
		tabload.AppName,
	)

	session, err := connectPgxWithDialer(ctx, dsn, c.config, c.logger, func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}, func() { dialer.Close() })
	if err != nil {
		return nil, err
	}

	c.logger.Verbose("connected to Cloud SQL instance %s/%s", c.instance, c.config.Database)
	return session, nil
}
