package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/tabload/internal/config"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. password key in config.yaml
//  3. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Note: Database flag is excluded from this check because it can be used to override
// the database specified in a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AzureFlags represents Azure Entra ID CLI flags.
// These override the corresponding AZURE_* environment variables.
// Client secret is only read from AZURE_CLIENT_SECRET.
type AzureFlags struct {
	TenantID string
	ClientID string
}

// IsEmpty returns true if no Azure flags were provided.
func (a *AzureFlags) IsEmpty() bool {
	return a == nil || (a.TenantID == "" && a.ClientID == "")
}

// EnvVars represents the environment variables consulted during resolution.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Heroku/Rails convention, PostgreSQL only

	// TABLOAD_CONNECTION is a connection string in any supported driver's form.
	TABLOAD_CONNECTION string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
	AWS_REGION          string
}

// LoadFromEnvironment loads database and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		TABLOAD_CONNECTION:  os.Getenv("TABLOAD_CONNECTION"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
	}
}

// HasAzureCredentials returns true if Azure Entra ID environment variables are set.
func (e *EnvVars) HasAzureCredentials() bool {
	return e.AZURE_TENANT_ID != "" || e.AZURE_CLIENT_ID != ""
}

// ResolveConnectionParams resolves the destination connection with the
// precedence flag > environment > config file > default:
//
//  1. Driver: --driver, then config.yaml driver, then the form of the
//     connection string, then PostgreSQL.
//  2. Connection string: --connection, then $TABLOAD_CONNECTION, then
//     $DATABASE_URL (PostgreSQL only), then config.yaml dsn. The last three
//     apply only when no granular flags were given.
//  3. Otherwise granular flags (-h, -p, -U, -d), then PG* environment
//     variables (PostgreSQL only), then config.yaml, then defaults.
//
// For non-PostgreSQL drivers a DSN is built from the granular fields when no
// connection string was found.
//
// Returns an error if BOTH --connection and granular flags are provided.
func ResolveConnectionParams(
	driverFlag string,
	connStringFlag string,
	granularFlags *GranularConnFlags,
	azureFlags *AzureFlags,
	envVars *EnvVars,
	fileConfig *config.FileConfig,
) (*tabload.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if azureFlags == nil {
		azureFlags = &AzureFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	if fileConfig == nil {
		fileConfig = &config.FileConfig{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"%w: cannot specify both --connection and granular flags (-h, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/postgres\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d mydb\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
			tabload.ErrInvalidConfig,
		)
	}

	driver, explicitDriver, err := resolveDriver(driverFlag, fileConfig.Driver)
	if err != nil {
		return nil, err
	}

	connStr := selectConnectionString(connStringFlag, granularFlags, envVars, fileConfig, driver, explicitDriver)

	var cfg *tabload.ConnectionConfig
	if connStr != "" {
		if !explicitDriver {
			if detected, ok := DetectDriver(connStr); ok {
				driver = detected
			}
		}
		cfg, err = resolveFromConnectionString(driver, connStr, granularFlags)
	} else {
		cfg, err = resolveFromGranularParams(driver, granularFlags, envVars, fileConfig)
	}
	if err != nil {
		return nil, err
	}

	if err := applyAuth(cfg, azureFlags, envVars, fileConfig); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveDriver(flag, fromFile string) (tabload.Driver, bool, error) {
	raw := flag
	if raw == "" {
		raw = fromFile
	}
	driver, err := tabload.ParseDriver(raw)
	if err != nil {
		return "", false, err
	}
	return driver, raw != "", nil
}

func selectConnectionString(flag string, granular *GranularConnFlags, env *EnvVars, fileConfig *config.FileConfig, driver tabload.Driver, explicitDriver bool) string {
	if flag != "" {
		return flag
	}
	if !granular.IsEmpty() {
		return ""
	}
	if env.TABLOAD_CONNECTION != "" {
		return env.TABLOAD_CONNECTION
	}
	if env.DATABASE_URL != "" && (!explicitDriver || driver == tabload.DriverPostgres) {
		return env.DATABASE_URL
	}
	return fileConfig.DSN
}

// resolveFromConnectionString parses connStr for driver. A -d flag overrides
// the PostgreSQL database named in the string.
func resolveFromConnectionString(driver tabload.Driver, connStr string, flags *GranularConnFlags) (*tabload.ConnectionConfig, error) {
	cfg, err := ParseDSN(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w: %w", err, tabload.ErrInvalidConfig)
	}
	if driver == tabload.DriverPostgres && flags.Database != "" {
		cfg.Database = flags.Database
	}
	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig from granular flags,
// environment variables and the config file. PG* variables only apply to
// PostgreSQL.
func resolveFromGranularParams(
	driver tabload.Driver,
	flags *GranularConnFlags,
	envVars *EnvVars,
	fileConfig *config.FileConfig,
) (*tabload.ConnectionConfig, error) {
	env := envVars
	if driver != tabload.DriverPostgres {
		env = &EnvVars{}
	}

	cfg := &tabload.ConnectionConfig{
		Driver:           driver,
		AuthMethod:       tabload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, env.PGHOST, fileConfig.Host)
	if cfg.Host == "" && driver != tabload.DriverSQLite {
		cfg.Host = "localhost"
	}

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", env.PGPORT, tabload.ErrInvalidConfig)
		}
		cfg.Port = port
	case fileConfig.Port != 0:
		cfg.Port = fileConfig.Port
	default:
		cfg.Port = defaultPort(driver)
	}

	cfg.Username = firstNonEmpty(flags.Username, env.PGUSER, fileConfig.User)
	if cfg.Username == "" && driver == tabload.DriverPostgres {
		cfg.Username = firstNonEmpty(os.Getenv("USER"), os.Getenv("USERNAME"))
	}

	cfg.Password = firstNonEmpty(env.PGPASSWORD, fileConfig.Password)
	cfg.Database = firstNonEmpty(flags.Database, env.PGDATABASE, fileConfig.Database)

	if driver == tabload.DriverPostgres {
		cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMODE, fileConfig.SSLMode, "prefer")
		return cfg, nil
	}

	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}
	cfg.DSN = dsn
	return cfg, nil
}

func defaultPort(driver tabload.Driver) int {
	switch driver {
	case tabload.DriverMySQL:
		return DefaultMySQLPort
	case tabload.DriverMSSQL:
		return DefaultMSSQLPort
	case tabload.DriverSQLite:
		return 0
	default:
		return tabload.DefaultPostgresPort
	}
}

// applyAuth sets the cloud authentication method. Azure Entra ID is switched
// on for PostgreSQL whenever tenant or client ID is available; CLI flags take
// precedence over environment variables, which take precedence over the
// config file.
func applyAuth(cfg *tabload.ConnectionConfig, flags *AzureFlags, env *EnvVars, fileConfig *config.FileConfig) error {
	method, err := tabload.ParseAuthMethod(fileConfig.AuthMethod)
	if err != nil {
		return err
	}
	cfg.AuthMethod = method
	cfg.AWSRegion = firstNonEmpty(fileConfig.AWSRegion, env.AWS_REGION)
	cfg.GoogleInstance = fileConfig.GoogleInstance

	if cfg.Driver != tabload.DriverPostgres {
		return nil
	}

	tenantID := firstNonEmpty(flags.TenantID, env.AZURE_TENANT_ID, fileConfig.AzureTenantID)
	clientID := firstNonEmpty(flags.ClientID, env.AZURE_CLIENT_ID, fileConfig.AzureClientID)
	if method == tabload.AuthMethodAzureEntraID || (method == tabload.AuthMethodStandard && (tenantID != "" || clientID != "")) {
		cfg.AuthMethod = tabload.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
