package filesystem

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_ReadFile(t *testing.T) {
	mfs := NewMemoryFileSystem("/test/project")

	expectedContent := "name,age\nAlice,30\n"
	mfs.AddFile("data/tbl_sales.csv", expectedContent)

	content, err := mfs.ReadFile("/test/project/data/tbl_sales.csv")
	require.NoError(t, err)
	require.Equal(t, expectedContent, string(content))

	content, err = mfs.ReadFile("data/tbl_sales.csv")
	require.NoError(t, err)
	require.Equal(t, expectedContent, string(content))
}

func TestMemoryFileSystem_ReadFile_Missing(t *testing.T) {
	mfs := NewMemoryFileSystem("/test/project")

	_, err := mfs.ReadFile("missing.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_ReadFile_Directory(t *testing.T) {
	mfs := NewMemoryFileSystem("/test/project")
	mfs.AddFile("data/a.csv", "x\n1\n")

	_, err := mfs.ReadFile("data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestMemoryFileSystem_Stat(t *testing.T) {
	mfs := NewMemoryFileSystem("/test/project")
	mfs.AddFile("root.csv", "a\n1\n")

	info, err := mfs.Stat("/test/project/root.csv")
	require.NoError(t, err)
	require.False(t, info.IsDir())
	require.Equal(t, "root.csv", info.Name())
	require.Equal(t, int64(4), info.Size())

	info, err = mfs.Stat("/test/project")
	require.NoError(t, err)
	require.True(t, info.IsDir())

	_, err = mfs.Stat("nope.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_ReadFileReturnsCopy(t *testing.T) {
	mfs := NewMemoryFileSystem("/p")
	mfs.AddFile("a.csv", "abc")

	first, err := mfs.ReadFile("a.csv")
	require.NoError(t, err)
	first[0] = 'z'

	second, err := mfs.ReadFile("a.csv")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(second))
}
