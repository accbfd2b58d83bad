// Package tabular reads delimited flat files into typed in-memory tables.
//
// Each column is classified by scanning every non-null value with a fixed
// precedence: Integer, Float, Boolean, Timestamp, then Text as the fallback.
// Because a column only takes a type when all of its values match, the
// result does not depend on row order.
//
// # Example Usage
//
//	reader := tabular.NewReader(filesystem.NewOSFileSystem())
//	table, err := reader.Read("data/tbl_sales.csv", tabular.Options{})
//	if err != nil {
//	    return err // *tabload.SourceReadError or *tabload.SchemaInferenceError
//	}
package tabular
