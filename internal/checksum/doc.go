// Package checksum fingerprints source files.
//
// Two checksums are computed for every file that is read:
//
//   - Raw checksum: hash of the exact bytes (detects any change)
//   - Normalized checksum: hash after dropping a UTF-8 byte order mark,
//     converting CRLF to LF and trimming trailing newlines, so the same
//     export saved on Windows and Unix yields the same value
//
// # Example Usage
//
//	calculator := checksum.New()
//	raw := calculator.CalculateRaw(fileContent)
//	normalized := calculator.CalculateNormalized(fileContent)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
