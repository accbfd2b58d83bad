package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tabload/internal/config"
	"github.com/vvka-141/tabload/internal/files/filesystem"
	"github.com/vvka-141/tabload/internal/schema"
	"github.com/vvka-141/tabload/internal/tabular"
	"github.com/vvka-141/tabload/internal/tui"
	"github.com/vvka-141/tabload/pkg/tabload"
)

var inferCmd = &cobra.Command{
	Use:   "infer <file>",
	Short: "Print the inferred schema without connecting",
	Long: `Infer reads a delimited file the same way load does and prints the inferred
column types together with the CREATE TABLE statement load would run.

No database connection is made.

Examples:
  tabload infer ./users.csv
  tabload infer ./sales.tsv --delimiter '\t' --driver sqlserver --quote-identifiers`,
	Args: RequireSourceFile,
	RunE: runInfer,
}

type inferFlagValues struct {
	driver           string
	table            string
	delimiter        string
	quoteIdentifiers bool
}

var inferFlags inferFlagValues

func init() {
	rootCmd.AddCommand(inferCmd)

	inferCmd.Flags().StringVar(&inferFlags.driver, "driver", "",
		"Dialect for the printed statement: postgres|sqlite|mysql|sqlserver\n"+
			"(default: config.yaml driver, else postgres)")
	addTableFlags(inferCmd, &inferFlags.table, &inferFlags.delimiter, &inferFlags.quoteIdentifiers)
}

func runInfer(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	reader := tabular.NewReader(filesystem.NewOSFileSystem())
	return executeInfer(reader, args[0], inferFlags, fileCfg, cmd.OutOrStdout())
}

// executeInfer reads sourcePath and writes the schema preview to out.
func executeInfer(reader tabload.TableReader, sourcePath string, flags inferFlagValues, fileCfg *config.FileConfig, out io.Writer) error {
	rawDriver := flags.driver
	if rawDriver == "" {
		rawDriver = fileCfg.Driver
	}
	driver, err := tabload.ParseDriver(rawDriver)
	if err != nil {
		return err
	}
	dialect, err := schema.DialectFor(driver)
	if err != nil {
		return err
	}
	dialect = dialect.WithQuotedIdentifiers(flags.quoteIdentifiers)

	delimiter, err := resolveDelimiter(flags.delimiter, fileCfg)
	if err != nil {
		return err
	}

	table, err := reader.Read(sourcePath, tabload.TableReaderOptions{Delimiter: delimiter})
	if err != nil {
		return err
	}

	tableName := resolveTableName(flags.table, fileCfg.Table, sourcePath)
	mode := outputMode(out)
	fmt.Fprintln(out, tui.RenderSchema(table, dialect, tableName, mode))
	if unsafe := dialect.UnsafeIdentifiers(table, tableName); len(unsafe) > 0 {
		fmt.Fprintln(out, tui.RenderWarning(fmt.Sprintf("identifiers %q need --quote-identifiers", unsafe), mode))
	}
	return nil
}
