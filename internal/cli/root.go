package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tabload/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "tabload",
	Short: "Load delimited flat files into database tables",
	Long: `tabload reads a delimited flat file, infers a column type for every header
field, creates the destination table if it does not exist and inserts every
row inside a single transaction.

Either all rows are committed or none are.

Supported destinations: PostgreSQL, SQLite, MySQL/MariaDB and SQL Server.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - Source file missing or unreadable
  13 - Column types could not be inferred
  14 - Table creation rejected
  15 - A row was rejected (nothing committed)
  16 - Commit rejected`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderFailure(err, tui.DetectMode(os.Stderr)))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for tabload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config", "",
		"Path to a YAML config file (default: ./config.yaml when present)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
