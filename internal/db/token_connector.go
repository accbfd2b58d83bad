package db

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/tabload/internal/logging"
	"github.com/vvka-141/tabload/internal/retry"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate PostgreSQL sessions with short-lived tokens (AWS IAM,
// Azure Entra ID). A fresh token is acquired for every connect attempt.
type TokenBasedConnector struct {
	config        *tabload.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
	logger        tabload.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName appears in errors and warnings (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *tabload.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger tabload.Logger) *TokenBasedConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	executor := retry.NewConnectExecutor(tabload.DriverPostgres).
		WithOnRetry(retryLogger(logger, fmt.Sprintf("%s:%d", config.Host, config.Port)))

	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: executor,
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (tabload.Session, error) {
	var session *pgxSession

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}

		if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
			c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
		}

		configWithToken := *c.config
		configWithToken.Password = token

		session, err = connectPgx(ctx, BuildConnectionString(&configWithToken), c.config, c.logger)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Verbose("connected to postgres at %s:%d/%s using %s", c.config.Host, c.config.Port, c.config.Database, c.tokenProvider)
	return session, nil
}
