// Package filesystem abstracts access to source files so the tabular reader
// can be exercised against in-memory content in tests.
//
// Implementations:
//   - OSFileSystem: production implementation using the OS filesystem
//   - MemoryFileSystem: in-memory implementation for testing
package filesystem
