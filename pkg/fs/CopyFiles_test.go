// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs_test

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/gocopy/pkg/fs"
	"github.com/navwar/gocopy/pkg/lfs"
)

func writeFile(t *testing.T, fileSystem fs.FileSystem, name string, contents string) {
	t.Helper()
	ctx := context.Background()
	f, err := fileSystem.OpenFile(ctx, name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func readFile(t *testing.T, fileSystem fs.FileSystem, name string) string {
	t.Helper()
	ctx := context.Background()
	f, err := fileSystem.Open(ctx, name)
	require.NoError(t, err)
	contents, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return string(contents)
}

func TestCopyFiles(t *testing.T) {
	ctx := context.Background()
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(ctx, "/src", 0755))
	writeFile(t, fileSystem, "/src/a.txt", "hello")
	writeFile(t, fileSystem, "/src/b.txt", "world")

	count, err := fs.CopyFiles(ctx, &fs.CopyFilesInput{
		SourceDirectory:       "/src",
		SourceFileSystem:      fileSystem,
		DestinationDirectory:  "/dst",
		DestinationFileSystem: fileSystem,
		FileNames:             []string{"a.txt", "b.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	fi, err := fileSystem.Stat(ctx, "/dst")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	assert.Equal(t, "hello", readFile(t, fileSystem, "/dst/a.txt"))
	assert.Equal(t, "world", readFile(t, fileSystem, "/dst/b.txt"))
}

func TestCopyFilesOverwrite(t *testing.T) {
	ctx := context.Background()
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(ctx, "/src", 0755))
	require.NoError(t, fileSystem.MkdirAll(ctx, "/dst", 0755))
	writeFile(t, fileSystem, "/src/a.txt", "fresh")
	writeFile(t, fileSystem, "/dst/a.txt", "stale contents that are longer")

	count, err := fs.CopyFiles(ctx, &fs.CopyFilesInput{
		SourceDirectory:       "/src",
		SourceFileSystem:      fileSystem,
		DestinationDirectory:  "/dst",
		DestinationFileSystem: fileSystem,
		FileNames:             []string{"a.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "fresh", readFile(t, fileSystem, "/dst/a.txt"))
}

func TestCopyFilesBaseName(t *testing.T) {
	ctx := context.Background()
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(ctx, "/src", 0755))
	writeFile(t, fileSystem, "/src/a.txt", "hello")

	// the directory prefix in the file name is stripped,
	// so the file is resolved at /src/a.txt
	count, err := fs.CopyFiles(ctx, &fs.CopyFilesInput{
		SourceDirectory:       "/src",
		SourceFileSystem:      fileSystem,
		DestinationDirectory:  "/dst",
		DestinationFileSystem: fileSystem,
		FileNames:             []string{"nested/a.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "hello", readFile(t, fileSystem, "/dst/a.txt"))

	_, err = fileSystem.Stat(ctx, "/dst/nested")
	assert.True(t, fileSystem.IsNotExist(err))
}

func TestCopyFilesMissingSource(t *testing.T) {
	ctx := context.Background()
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(ctx, "/src", 0755))
	writeFile(t, fileSystem, "/src/a.txt", "hello")
	writeFile(t, fileSystem, "/src/b.txt", "world")

	count, err := fs.CopyFiles(ctx, &fs.CopyFilesInput{
		SourceDirectory:       "/src",
		SourceFileSystem:      fileSystem,
		DestinationDirectory:  "/dst",
		DestinationFileSystem: fileSystem,
		FileNames:             []string{"a.txt", "missing.txt", "b.txt"},
	})
	require.Error(t, err)
	assert.Equal(t, 1, count)

	// files listed before the missing one were already copied
	assert.Equal(t, "hello", readFile(t, fileSystem, "/dst/a.txt"))

	// files listed after the missing one were not copied
	_, err = fileSystem.Stat(ctx, "/dst/b.txt")
	assert.True(t, fileSystem.IsNotExist(err))
}

func TestCopyFilesDuplicateName(t *testing.T) {
	ctx := context.Background()
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(ctx, "/src", 0755))
	writeFile(t, fileSystem, "/src/a.txt", "hello")

	count, err := fs.CopyFiles(ctx, &fs.CopyFilesInput{
		SourceDirectory:       "/src",
		SourceFileSystem:      fileSystem,
		DestinationDirectory:  "/dst",
		DestinationFileSystem: fileSystem,
		FileNames:             []string{"a.txt", "a.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "hello", readFile(t, fileSystem, "/dst/a.txt"))
}

func TestCopyFilesSameDirectory(t *testing.T) {
	ctx := context.Background()
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(ctx, "/src", 0755))
	writeFile(t, fileSystem, "/src/a.txt", "hello")

	// "/src/" joins to the same file as "/src", so the copy must be
	// rejected before the truncating open destroys the source
	count, err := fs.CopyFiles(ctx, &fs.CopyFilesInput{
		SourceDirectory:       "/src",
		SourceFileSystem:      fileSystem,
		DestinationDirectory:  "/src/",
		DestinationFileSystem: fileSystem,
		FileNames:             []string{"a.txt"},
	})
	require.Error(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, "hello", readFile(t, fileSystem, "/src/a.txt"))
}

func TestCopyFilesMissingSourceDirectory(t *testing.T) {
	ctx := context.Background()
	fileSystem := lfs.NewMemoryFileSystem()

	count, err := fs.CopyFiles(ctx, &fs.CopyFilesInput{
		SourceDirectory:       "/src",
		SourceFileSystem:      fileSystem,
		DestinationDirectory:  "/dst",
		DestinationFileSystem: fileSystem,
		FileNames:             []string{"a.txt"},
	})
	require.Error(t, err)
	assert.Equal(t, 0, count)
}
