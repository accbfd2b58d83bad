package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"unicode/utf8"

	"github.com/vvka-141/tabload/internal/checksum"
	"github.com/vvka-141/tabload/internal/files/filesystem"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// Options configures how a flat file is parsed.
type Options = tabload.TableReaderOptions

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader parses delimited flat files into typed in-memory tables.
type Reader struct {
	fs   filesystem.FileSystemProvider
	calc checksum.Calculator
}

// NewReader creates a Reader backed by the given filesystem provider.
func NewReader(fsProvider filesystem.FileSystemProvider) *Reader {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Reader{fs: fsProvider, calc: checksum.New()}
}

// Read parses the file at path. The first record is the header; each
// following record is a row. Column types are inferred from all rows before
// any value is converted.
func (r *Reader) Read(path string, opts Options) (*tabload.Table, error) {
	content, err := r.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &tabload.SourceReadError{Path: path, Err: fmt.Errorf("file not found: %w", err)}
		}
		return nil, &tabload.SourceReadError{Path: path, Err: err}
	}

	header, records, err := parseRecords(content, opts)
	if err != nil {
		return nil, &tabload.SourceReadError{Path: path, Err: err}
	}

	if len(records) == 0 {
		return nil, &tabload.SchemaInferenceError{Path: path, Reason: "file has a header but no data rows"}
	}

	table := buildTable(header, records)
	table.Checksum = r.calc.CalculateRaw(content)
	table.NormalizedChecksum = r.calc.CalculateNormalized(content)
	return table, nil
}

func parseRecords(content []byte, opts Options) ([]string, [][]string, error) {
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = tabload.DefaultDelimiter
	}
	if !utf8.ValidRune(delimiter) || delimiter == '"' || delimiter == '\r' || delimiter == '\n' {
		return nil, nil, fmt.Errorf("invalid delimiter %q", delimiter)
	}

	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, errors.New("file is empty, expected a header line")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse header: %w", err)
	}

	var records [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse record: %w", err)
		}
		if len(record) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(record))
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		records = append(records, record)
	}

	return header, records, nil
}

func buildTable(header []string, records [][]string) *tabload.Table {
	columns := make([]tabload.Column, len(header))
	cells := make([]string, len(records))
	for col, name := range header {
		for i, rec := range records {
			cells[i] = rec[col]
		}
		columns[col] = tabload.Column{Name: name, Type: InferType(cells)}
	}

	rows := make([]tabload.Row, len(records))
	for i, rec := range records {
		row := make(tabload.Row, len(columns))
		for col, c := range columns {
			row[col] = ConvertValue(rec[col], c.Type)
		}
		rows[i] = row
	}

	return &tabload.Table{Columns: columns, Rows: rows}
}
