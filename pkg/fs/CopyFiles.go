// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"context"
	"fmt"
	"os"
)

const (
	DefaultDirectoryMode = os.FileMode(0755)
)

// CopyFiles copies the named files from the source directory to the destination
// directory, creating the destination directory if it does not exist.  Any directory
// components in a file name are stripped and only the base name is used to resolve
// the file in both the source and destination directories.  Files are copied
// sequentially in the order given and the first error stops all remaining copies.
// Returns the number of files copied, including those copied before an error.
func CopyFiles(ctx context.Context, input *CopyFilesInput) (int, error) {
	if input.Logger != nil {
		_ = input.Logger.Log("Copying files", map[string]interface{}{
			"src":   input.SourceDirectory,
			"dst":   input.DestinationDirectory,
			"files": len(input.FileNames),
		})
	}

	directoryMode := input.DirectoryMode
	if directoryMode == 0 {
		directoryMode = DefaultDirectoryMode
	}

	// the destination directory must exist before any copy is attempted
	if err := input.DestinationFileSystem.MkdirAll(ctx, input.DestinationDirectory, directoryMode); err != nil {
		return 0, fmt.Errorf("error creating destination directory %q: %w", input.DestinationDirectory, err)
	}

	count := 0
	for _, fileName := range input.FileNames {
		baseName := input.SourceFileSystem.Base(fileName)
		sourceName := input.SourceFileSystem.Join(input.SourceDirectory, baseName)
		destinationName := input.DestinationFileSystem.Join(input.DestinationDirectory, baseName)
		err := Copy(ctx, &CopyInput{
			SourceName:            sourceName,
			SourceFileSystem:      input.SourceFileSystem,
			DestinationName:       destinationName,
			DestinationFileSystem: input.DestinationFileSystem,
			Logger:                input.Logger,
		})
		if err != nil {
			return count, fmt.Errorf("error copying %q to %q: %w", sourceName, destinationName, err)
		}
		count += 1
	}

	return count, nil
}
