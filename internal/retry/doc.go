// Package retry retries session establishment with exponential backoff.
//
// Only connecting is retried. Statements executed inside a load transaction
// never are: a rejected statement fails the run.
//
// # Example Usage
//
//	executor := retry.NewConnectExecutor(tabload.DriverPostgres).
//	    WithOnRetry(func(attempt int, err error, delay time.Duration) {
//	        logger.Verbose("connect attempt %d failed: %v (retrying in %s)", attempt+1, err, delay)
//	    })
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
// # Error Classification
//
// NewClassifier picks the classifier for a driver. PostgreSQLErrorClassifier
// inspects SQLSTATE codes; SQLErrorClassifier inspects MySQL, SQL Server and
// SQLite error numbers. Both treat refused, reset and unreachable network
// connections as transient.
package retry
