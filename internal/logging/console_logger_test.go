package logging

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/tabload/pkg/tabload"
)

var (
	_ tabload.Logger = (*ConsoleLogger)(nil)
	_ tabload.Logger = (*NullLogger)(nil)
)

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func(l *ConsoleLogger)
		want    string
	}{
		{
			name:    "verbose when enabled",
			verbose: true,
			log:     func(l *ConsoleLogger) { l.Verbose("read %d row(s)", 2) },
			want:    "[VERBOSE] read 2 row(s)\n",
		},
		{
			name: "verbose when disabled",
			log:  func(l *ConsoleLogger) { l.Verbose("read %d row(s)", 2) },
			want: "",
		},
		{
			name: "info",
			log:  func(l *ConsoleLogger) { l.Info("loaded %s", "people") },
			want: "loaded people\n",
		},
		{
			name: "error",
			log:  func(l *ConsoleLogger) { l.Error("row %d rejected", 2) },
			want: "[ERROR] row 2 rejected\n",
		},
		{
			name: "format verbs kept without args",
			log:  func(l *ConsoleLogger) { l.Info("100% done") },
			want: "100% done\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewConsoleLoggerTo(&buf, tt.verbose))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleLogger_VerboseEnabled(t *testing.T) {
	assert.True(t, NewConsoleLoggerTo(io.Discard, true).VerboseEnabled())
	assert.False(t, NewConsoleLogger(false).VerboseEnabled())
}

func TestConsoleLogger_ConcurrentWritesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 150)
	for _, line := range lines {
		assert.Regexp(t, `^(\[VERBOSE\] verbose|\[ERROR\] error|message) \d+$`, line)
	}
}

func TestNullLogger_ConcurrentSafety(t *testing.T) {
	logger := NewNullLogger()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()
}

func BenchmarkConsoleLogger_Verbose(b *testing.B) {
	logger := NewConsoleLoggerTo(io.Discard, true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
	}
}

func BenchmarkConsoleLogger_VerboseDisabled(b *testing.B) {
	logger := NewConsoleLoggerTo(io.Discard, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
	}
}

func ExampleConsoleLogger() {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)
	logger.Info("loading people.csv")
	logger.Verbose("state Idle -> Reading")
	logger.Error("row 2 rejected")
	fmt.Print(buf.String())
	// Output:
	// loading people.csv
	// [VERBOSE] state Idle -> Reading
	// [ERROR] row 2 rejected
}

func ExampleNullLogger() {
	logger := NewNullLogger()
	logger.Info("This message is discarded")
	fmt.Println("Done")
	// Output:
	// Done
}
