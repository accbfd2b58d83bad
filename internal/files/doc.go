// Package files groups file access for tabload.
//
//   - filesystem: filesystem abstraction with OS and in-memory implementations
//
// The tabular reader reads source files only through filesystem.FileSystemProvider,
// so unit tests run against filesystem.NewMemoryFileSystem.
package files
