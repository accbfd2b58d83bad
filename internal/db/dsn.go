package db

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// Default ports for the database/sql destinations.
const (
	DefaultMySQLPort = 3306
	DefaultMSSQLPort = 1433
)

// BuildDSN returns the driver-native data source name for a database/sql
// destination. An explicit config.DSN is returned unchanged; otherwise one is
// built from the granular fields.
func BuildDSN(config *tabload.ConnectionConfig) (string, error) {
	if config.DSN != "" {
		return config.DSN, nil
	}

	switch config.Driver {
	case tabload.DriverSQLite:
		if config.Database == "" {
			return "", fmt.Errorf("sqlite requires a database file path: %w", tabload.ErrInvalidConfig)
		}
		return config.Database, nil
	case tabload.DriverMySQL:
		return buildMySQLDSN(config), nil
	case tabload.DriverMSSQL:
		return buildMSSQLDSN(config), nil
	default:
		return "", fmt.Errorf("no DSN format for driver %q: %w", config.Driver, tabload.ErrInvalidConfig)
	}
}

func hostPort(config *tabload.ConnectionConfig, defaultPort int) string {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	port := config.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func buildMySQLDSN(config *tabload.ConnectionConfig) string {
	cfg := mysql.NewConfig()
	cfg.User = config.Username
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = hostPort(config, DefaultMySQLPort)
	cfg.DBName = config.Database
	cfg.Timeout = config.ConnectTimeout
	if len(config.AdditionalParams) > 0 {
		cfg.Params = make(map[string]string, len(config.AdditionalParams))
		for k, v := range config.AdditionalParams {
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN()
}

func buildMSSQLDSN(config *tabload.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "sqlserver",
		Host:   hostPort(config, DefaultMSSQLPort),
	}
	if config.Username != "" {
		u.User = url.UserPassword(config.Username, config.Password)
	}

	query := url.Values{}
	if config.Database != "" {
		query.Set("database", config.Database)
	}
	appName := config.AppName
	if appName == "" {
		appName = tabload.AppName
	}
	query.Set("app name", appName)
	if config.ConnectTimeout > 0 {
		query.Set("dial timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}
	for k, v := range config.AdditionalParams {
		query.Set(k, v)
	}
	u.RawQuery = query.Encode()
	return u.String()
}
