// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/gocopy/pkg/fs"
	"github.com/navwar/gocopy/pkg/lfs"
)

func TestCopy(t *testing.T) {
	ctx := context.Background()
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(ctx, "/src", 0755))
	require.NoError(t, fileSystem.MkdirAll(ctx, "/dst", 0755))
	writeFile(t, fileSystem, "/src/a.txt", "hello")

	modTime := time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fileSystem.Chtimes(ctx, "/src/a.txt", time.Now(), modTime))

	err := fs.Copy(ctx, &fs.CopyInput{
		SourceName:            "/src/a.txt",
		SourceFileSystem:      fileSystem,
		DestinationName:       "/dst/a.txt",
		DestinationFileSystem: fileSystem,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", readFile(t, fileSystem, "/dst/a.txt"))

	// modification time is preserved
	destinationFileInfo, err := fileSystem.Stat(ctx, "/dst/a.txt")
	require.NoError(t, err)
	assert.True(t, fs.EqualTimestamp(modTime, destinationFileInfo.ModTime(), time.Second))
}

func TestCopyMissingSource(t *testing.T) {
	ctx := context.Background()
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(ctx, "/dst", 0755))

	err := fs.Copy(ctx, &fs.CopyInput{
		SourceName:            "/src/a.txt",
		SourceFileSystem:      fileSystem,
		DestinationName:       "/dst/a.txt",
		DestinationFileSystem: fileSystem,
	})
	require.Error(t, err)

	// nothing was created at the destination
	_, err = fileSystem.Stat(ctx, "/dst/a.txt")
	assert.True(t, fileSystem.IsNotExist(err))
}
