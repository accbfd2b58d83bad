package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/tabload/pkg/tabload"
)

var plainIdentifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Dialect renders the load statements for one destination driver.
//
// All dialects share the canonical statement shapes. They differ in
// placeholder syntax, and SQL Server additionally overrides the type tokens
// and the create-if-missing form.
type Dialect struct {
	Driver tabload.Driver

	// QuoteIdentifiers quotes table and column names. Off by default, in which
	// case names are emitted verbatim.
	QuoteIdentifiers bool
}

// DialectFor returns the dialect of the given driver.
func DialectFor(driver tabload.Driver) (Dialect, error) {
	switch driver {
	case tabload.DriverPostgres, tabload.DriverSQLite, tabload.DriverMySQL, tabload.DriverMSSQL:
		return Dialect{Driver: driver}, nil
	default:
		return Dialect{}, fmt.Errorf("no SQL dialect for driver %q: %w", driver, tabload.ErrInvalidConfig)
	}
}

// WithQuotedIdentifiers returns a copy of d with identifier quoting set.
func (d Dialect) WithQuotedIdentifiers(quote bool) Dialect {
	d.QuoteIdentifiers = quote
	return d
}

// TypeName returns the column type token for t.
func (d Dialect) TypeName(t tabload.ColumnType) string {
	if d.Driver == tabload.DriverMSSQL {
		switch t {
		case tabload.ColumnTypeBoolean:
			return "BIT"
		case tabload.ColumnTypeTimestamp:
			return "DATETIME2"
		case tabload.ColumnTypeInteger, tabload.ColumnTypeFloat:
			return MapType(t)
		default:
			return "NVARCHAR(MAX)"
		}
	}
	return MapType(t)
}

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	switch d.Driver {
	case tabload.DriverPostgres:
		return fmt.Sprintf("$%d", n)
	case tabload.DriverMSSQL:
		return fmt.Sprintf("@p%d", n)
	default:
		return "?"
	}
}

// Identifier renders a table name. A dotted name such as "public.sales" is
// quoted part by part.
func (d Dialect) Identifier(name string) string {
	if !d.QuoteIdentifiers {
		return name
	}
	return d.quote(strings.Split(name, "."))
}

// columnIdentifier renders a column name. Dots belong to the name.
func (d Dialect) columnIdentifier(name string) string {
	if !d.QuoteIdentifiers {
		return name
	}
	return d.quote([]string{name})
}

func (d Dialect) quote(parts []string) string {
	switch d.Driver {
	case tabload.DriverPostgres:
		return pgx.Identifier(parts).Sanitize()
	case tabload.DriverMySQL:
		return quoteParts(parts, "`", "`")
	case tabload.DriverMSSQL:
		return quoteParts(parts, "[", "]")
	default:
		return quoteParts(parts, `"`, `"`)
	}
}

func quoteParts(parts []string, left, right string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = left + strings.ReplaceAll(p, right, right+right) + right
	}
	return strings.Join(quoted, ".")
}

// CreateTableStatement renders the create-if-missing statement for table.
// Columns appear in table order.
func (d Dialect) CreateTableStatement(table *tabload.Table, name string) string {
	defs := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		defs[i] = d.columnIdentifier(c.Name) + " " + d.TypeName(c.Type)
	}
	body := fmt.Sprintf("%s (%s)", d.Identifier(name), strings.Join(defs, ", "))

	if d.Driver == tabload.DriverMSSQL {
		return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s",
			strings.ReplaceAll(d.Identifier(name), "'", "''"), body)
	}
	return "CREATE TABLE IF NOT EXISTS " + body
}

// InsertStatement renders the parameterized single-row insert for table.
// Arguments bind positionally in column order.
func (d Dialect) InsertStatement(table *tabload.Table, name string) string {
	cols := make([]string, len(table.Columns))
	marks := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = d.columnIdentifier(c.Name)
		marks[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Identifier(name), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// UnsafeIdentifiers lists the table and column names that are not plain
// identifiers and so need quoting to be accepted by most databases.
// It returns nil when quoting is enabled.
func (d Dialect) UnsafeIdentifiers(table *tabload.Table, name string) []string {
	if d.QuoteIdentifiers {
		return nil
	}

	var unsafe []string
	for _, part := range strings.Split(name, ".") {
		if !plainIdentifierPattern.MatchString(part) {
			unsafe = append(unsafe, name)
			break
		}
	}
	for _, c := range table.Columns {
		if !plainIdentifierPattern.MatchString(c.Name) {
			unsafe = append(unsafe, c.Name)
		}
	}
	return unsafe
}
