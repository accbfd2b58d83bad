package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/tabload/pkg/tabload"
)

func usersTable() *tabload.Table {
	return &tabload.Table{
		Columns: []tabload.Column{
			{Name: "name", Type: tabload.ColumnTypeText},
			{Name: "age", Type: tabload.ColumnTypeInteger},
			{Name: "signup", Type: tabload.ColumnTypeTimestamp},
		},
	}
}

func TestMapType(t *testing.T) {
	tests := []struct {
		in   tabload.ColumnType
		want string
	}{
		{tabload.ColumnTypeInteger, "INTEGER"},
		{tabload.ColumnTypeFloat, "FLOAT"},
		{tabload.ColumnTypeBoolean, "BOOLEAN"},
		{tabload.ColumnTypeTimestamp, "TIMESTAMP"},
		{tabload.ColumnTypeText, "TEXT"},
		{tabload.ColumnType(99), "TEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, MapType(tt.in))
		})
	}
}

func TestCreateTableStatement(t *testing.T) {
	got := CreateTableStatement(usersTable(), "users")
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS users (name TEXT, age INTEGER, signup TIMESTAMP)", got)
}

func TestInsertStatement(t *testing.T) {
	got := InsertStatement(usersTable(), "users")
	assert.Equal(t, "INSERT INTO users (name, age, signup) VALUES ($1, $2, $3)", got)
}

func TestDialect_Statements(t *testing.T) {
	tests := []struct {
		driver     tabload.Driver
		quote      bool
		wantCreate string
		wantInsert string
	}{
		{
			driver:     tabload.DriverSQLite,
			wantCreate: "CREATE TABLE IF NOT EXISTS users (name TEXT, age INTEGER, signup TIMESTAMP)",
			wantInsert: "INSERT INTO users (name, age, signup) VALUES (?, ?, ?)",
		},
		{
			driver:     tabload.DriverMySQL,
			wantCreate: "CREATE TABLE IF NOT EXISTS users (name TEXT, age INTEGER, signup TIMESTAMP)",
			wantInsert: "INSERT INTO users (name, age, signup) VALUES (?, ?, ?)",
		},
		{
			driver:     tabload.DriverMSSQL,
			wantCreate: "IF OBJECT_ID(N'users', N'U') IS NULL CREATE TABLE users (name NVARCHAR(MAX), age INTEGER, signup DATETIME2)",
			wantInsert: "INSERT INTO users (name, age, signup) VALUES (@p1, @p2, @p3)",
		},
		{
			driver:     tabload.DriverPostgres,
			quote:      true,
			wantCreate: `CREATE TABLE IF NOT EXISTS "users" ("name" TEXT, "age" INTEGER, "signup" TIMESTAMP)`,
			wantInsert: `INSERT INTO "users" ("name", "age", "signup") VALUES ($1, $2, $3)`,
		},
		{
			driver:     tabload.DriverMySQL,
			quote:      true,
			wantCreate: "CREATE TABLE IF NOT EXISTS `users` (`name` TEXT, `age` INTEGER, `signup` TIMESTAMP)",
			wantInsert: "INSERT INTO `users` (`name`, `age`, `signup`) VALUES (?, ?, ?)",
		},
		{
			driver:     tabload.DriverMSSQL,
			quote:      true,
			wantCreate: "IF OBJECT_ID(N'[users]', N'U') IS NULL CREATE TABLE [users] ([name] NVARCHAR(MAX), [age] INTEGER, [signup] DATETIME2)",
			wantInsert: "INSERT INTO [users] ([name], [age], [signup]) VALUES (@p1, @p2, @p3)",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.driver), func(t *testing.T) {
			d, err := DialectFor(tt.driver)
			require.NoError(t, err)
			d = d.WithQuotedIdentifiers(tt.quote)

			assert.Equal(t, tt.wantCreate, d.CreateTableStatement(usersTable(), "users"))
			assert.Equal(t, tt.wantInsert, d.InsertStatement(usersTable(), "users"))
		})
	}
}

func TestDialect_TypeNameMSSQL(t *testing.T) {
	d := Dialect{Driver: tabload.DriverMSSQL}
	assert.Equal(t, "BIT", d.TypeName(tabload.ColumnTypeBoolean))
	assert.Equal(t, "FLOAT", d.TypeName(tabload.ColumnTypeFloat))
	assert.Equal(t, "NVARCHAR(MAX)", d.TypeName(tabload.ColumnType(99)))
}

func TestDialect_Identifier(t *testing.T) {
	pg := Dialect{Driver: tabload.DriverPostgres, QuoteIdentifiers: true}
	assert.Equal(t, `"public"."sales"`, pg.Identifier("public.sales"))
	assert.Equal(t, `"say ""hi"""`, pg.Identifier(`say "hi"`))

	lite := Dialect{Driver: tabload.DriverSQLite, QuoteIdentifiers: true}
	assert.Equal(t, `"first name"`, lite.Identifier("first name"))

	ms := Dialect{Driver: tabload.DriverMSSQL, QuoteIdentifiers: true}
	assert.Equal(t, "[a]]b]", ms.Identifier("a]b"))

	assert.Equal(t, "first name", Dialect{Driver: tabload.DriverSQLite}.Identifier("first name"))
}

func TestDialect_UnsafeIdentifiers(t *testing.T) {
	table := &tabload.Table{Columns: []tabload.Column{{Name: "id"}, {Name: "first name"}, {Name: "2nd"}}}

	d := Dialect{Driver: tabload.DriverPostgres}
	assert.Equal(t, []string{"first name", "2nd"}, d.UnsafeIdentifiers(table, "public.people"))
	assert.Equal(t, []string{"my-table", "first name", "2nd"}, d.UnsafeIdentifiers(table, "my-table"))
	assert.Nil(t, d.WithQuotedIdentifiers(true).UnsafeIdentifiers(table, "my-table"))
}

func TestDialectFor_Unknown(t *testing.T) {
	_, err := DialectFor("oracle")
	assert.ErrorIs(t, err, tabload.ErrInvalidConfig)
}

func TestDialect_DottedColumnQuotedWhole(t *testing.T) {
	table := &tabload.Table{Columns: []tabload.Column{{Name: "price.usd", Type: tabload.ColumnTypeFloat}}}

	tests := []struct {
		driver     tabload.Driver
		table      string
		wantCreate string
		wantInsert string
	}{
		{
			driver:     tabload.DriverSQLite,
			table:      "sales",
			wantCreate: `CREATE TABLE IF NOT EXISTS "sales" ("price.usd" FLOAT)`,
			wantInsert: `INSERT INTO "sales" ("price.usd") VALUES (?)`,
		},
		{
			driver:     tabload.DriverPostgres,
			table:      "public.sales",
			wantCreate: `CREATE TABLE IF NOT EXISTS "public"."sales" ("price.usd" FLOAT)`,
			wantInsert: `INSERT INTO "public"."sales" ("price.usd") VALUES ($1)`,
		},
		{
			driver:     tabload.DriverMySQL,
			table:      "sales",
			wantCreate: "CREATE TABLE IF NOT EXISTS `sales` (`price.usd` FLOAT)",
			wantInsert: "INSERT INTO `sales` (`price.usd`) VALUES (?)",
		},
		{
			driver:     tabload.DriverMSSQL,
			table:      "dbo.sales",
			wantCreate: "IF OBJECT_ID(N'[dbo].[sales]', N'U') IS NULL CREATE TABLE [dbo].[sales] ([price.usd] FLOAT)",
			wantInsert: "INSERT INTO [dbo].[sales] ([price.usd]) VALUES (@p1)",
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.driver), func(t *testing.T) {
			d := Dialect{Driver: tt.driver, QuoteIdentifiers: true}
			assert.Equal(t, tt.wantCreate, d.CreateTableStatement(table, tt.table))
			assert.Equal(t, tt.wantInsert, d.InsertStatement(table, tt.table))
		})
	}

	unquoted := Dialect{Driver: tabload.DriverSQLite}
	assert.Equal(t, []string{"price.usd"}, unquoted.UnsafeIdentifiers(table, "sales"))
}
