package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vvka-141/tabload/internal/schema"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// maxSampleWidth caps the sample value column.
const maxSampleWidth = 32

// RenderSchema renders the inferred columns of t, the SQL types they map to
// under dialect, one sample value per column and the creation statement.
func RenderSchema(t *tabload.Table, dialect schema.Dialect, tableName string, mode Mode) string {
	rows := make([][]string, len(t.Columns))
	for i, c := range t.Columns {
		rows[i] = []string{c.Name, c.Type.String(), dialect.TypeName(c.Type), sampleValue(t, i)}
	}

	grid := table.New().
		Headers("COLUMN", "INFERRED", "SQL TYPE", "SAMPLE").
		Rows(rows...)

	if mode == ModeStyled {
		grid = grid.
			Border(lipgloss.RoundedBorder()).
			BorderStyle(BorderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return HeaderStyle
				case col == 2:
					return TypeStyle
				default:
					return CellStyle
				}
			})
	} else {
		grid = grid.
			Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(_, _ int) lipgloss.Style { return lipgloss.NewStyle().Padding(0, 1) })
	}

	title := fmt.Sprintf("Schema for %s: %d column(s), %d row(s), %s", tableName, len(t.Columns), len(t.Rows), dialect.Driver)
	statement := dialect.CreateTableStatement(t, tableName)

	var b strings.Builder
	b.WriteString(render(TitleStyle, title, mode))
	b.WriteString("\n")
	b.WriteString(grid.String())
	b.WriteString("\n")
	b.WriteString(render(StatementStyle, statement, mode))
	b.WriteString("\n")
	return b.String()
}

// RenderSuccess renders the one-line summary of a committed load.
func RenderSuccess(result *tabload.LoadResult, mode Mode) string {
	line := fmt.Sprintf("%s Loaded %d row(s) into %s (%s) in %s",
		SymbolCheck, result.RowsInserted, result.TableName, result.Driver, result.Elapsed.Round(time.Millisecond))
	return render(SuccessStyle, line, mode)
}

// RenderFailure renders a failed load with its exit code.
func RenderFailure(err error, mode Mode) string {
	line := fmt.Sprintf("%s Load failed (exit %d): %v", SymbolCross, tabload.ExitCodeForError(err), err)
	return render(ErrorStyle, line, mode)
}

// RenderWarning renders a non-fatal notice such as identifiers that need quoting.
func RenderWarning(msg string, mode Mode) string {
	return render(WarningStyle, "! "+msg, mode)
}

func render(style lipgloss.Style, s string, mode Mode) string {
	if mode != ModeStyled {
		return s
	}
	return style.Render(s)
}

func sampleValue(t *tabload.Table, col int) string {
	for _, row := range t.Rows {
		if col >= len(row) || row[col] == nil {
			continue
		}
		var s string
		switch v := row[col].(type) {
		case time.Time:
			s = v.Format(time.RFC3339)
		default:
			s = fmt.Sprint(v)
		}
		if r := []rune(s); len(r) > maxSampleWidth {
			s = string(r[:maxSampleWidth-3]) + "..."
		}
		return s
	}
	return "(null)"
}
