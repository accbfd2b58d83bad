package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/tabload/pkg/tabload"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   tabload.ColumnType
	}{
		{"integers", []string{"1", "-2", "30"}, tabload.ColumnTypeInteger},
		{"integers with nulls", []string{"30", "", "NA"}, tabload.ColumnTypeInteger},
		{"mixed int and float", []string{"1", "2.5"}, tabload.ColumnTypeFloat},
		{"scientific notation", []string{"1e3", "2"}, tabload.ColumnTypeFloat},
		{"booleans", []string{"true", "False", "TRUE"}, tabload.ColumnTypeBoolean},
		{"dates", []string{"2023-01-01", "2023-02-01"}, tabload.ColumnTypeTimestamp},
		{"datetimes", []string{"2023-01-01 10:00:00", "2023-01-01T10:00:00Z"}, tabload.ColumnTypeTimestamp},
		{"text", []string{"Alice", "Bob"}, tabload.ColumnTypeText},
		{"one bad integer", []string{"30", "abc", "40"}, tabload.ColumnTypeText},
		{"all null", []string{"", "NULL", "nan"}, tabload.ColumnTypeText},
		{"empty column", nil, tabload.ColumnTypeText},
		{"yes/no is text", []string{"yes", "no"}, tabload.ColumnTypeText},
		{"0/1 is integer", []string{"0", "1"}, tabload.ColumnTypeInteger},
		{"hex float is text", []string{"0x1p-2"}, tabload.ColumnTypeText},
		{"signed hex float is text", []string{"1.5", "-0X1P+3"}, tabload.ColumnTypeText},
		{"leading zero decimal", []string{"0.25", "05"}, tabload.ColumnTypeFloat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferType(tt.values))
		})
	}
}

func TestInferType_OrderIndependent(t *testing.T) {
	forward := []string{"1", "2.5", "", "3"}
	reverse := []string{"3", "", "2.5", "1"}
	assert.Equal(t, InferType(forward), InferType(reverse))

	forward = []string{"2023-01-01", "x"}
	reverse = []string{"x", "2023-01-01"}
	assert.Equal(t, InferType(forward), InferType(reverse))
}

func TestConvertValue(t *testing.T) {
	assert.Equal(t, int64(30), ConvertValue("30", tabload.ColumnTypeInteger))
	assert.Equal(t, 2.5, ConvertValue("2.5", tabload.ColumnTypeFloat))
	assert.Equal(t, float64(2), ConvertValue("2", tabload.ColumnTypeFloat))
	assert.Equal(t, true, ConvertValue("TRUE", tabload.ColumnTypeBoolean))
	assert.Equal(t, "Alice", ConvertValue("Alice", tabload.ColumnTypeText))
	assert.Nil(t, ConvertValue("", tabload.ColumnTypeInteger))
	assert.Nil(t, ConvertValue("NA", tabload.ColumnTypeText))

	ts := ConvertValue("2023-01-01", tabload.ColumnTypeTimestamp)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), ts)
}

func TestIsNull(t *testing.T) {
	for _, v := range []string{"", "NA", "N/A", "NaN", "NULL", "null", "None", "<NA>", "#N/A"} {
		assert.True(t, IsNull(v), v)
	}
	for _, v := range []string{" ", "0", "none", "-", "x"} {
		assert.False(t, IsNull(v), v)
	}
}
