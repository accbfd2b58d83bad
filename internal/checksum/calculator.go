package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

// Calculator computes checksums of source file content.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum that ignores a leading UTF-8
	// byte order mark, line ending style and trailing blank lines.
	CalculateNormalized(content []byte) string
}

// SHA256 implements checksum calculation using SHA-256.
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256(normalize(content))
	return hex.EncodeToString(hash[:])
}

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
	lf      = []byte("\n")
)

func normalize(content []byte) []byte {
	out := bytes.TrimPrefix(content, utf8BOM)
	if bytes.Contains(out, crlf) {
		out = bytes.ReplaceAll(out, crlf, lf)
	}
	return bytes.TrimRight(out, "\n")
}

// Short returns the first 12 hex digits of sum for log lines.
func Short(sum string) string {
	if len(sum) <= 12 {
		return sum
	}
	return sum[:12]
}
