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
	"io"
	"os"
	"time"
)

// Copy copies a single file from the source file system to the destination file system,
// overwriting the destination if it already exists.  The destination's modification time
// and permission bits are set from the source where the destination supports them.
func Copy(ctx context.Context, input *CopyInput) error {
	if input.Logger != nil {
		_ = input.Logger.Log("Copying file", map[string]interface{}{
			"src": input.SourceName,
			"dst": input.DestinationName,
		})
	}

	// copying a file onto itself through a truncating open would destroy it
	if input.SourceFileSystem == input.DestinationFileSystem && input.SourceName == input.DestinationName {
		return fmt.Errorf("source and destination are the same file: %q", input.SourceName)
	}

	// stat source file to preserve metadata after copying
	sourceFileInfo, err := input.SourceFileSystem.Stat(ctx, input.SourceName)
	if err != nil {
		return fmt.Errorf("error stating source file at %q: %w", input.SourceName, err)
	}

	// open source file
	sourceFile, err := input.SourceFileSystem.Open(ctx, input.SourceName)
	if err != nil {
		return fmt.Errorf("error opening source file at %q: %w", input.SourceName, err)
	}

	// open destination file
	destinationFile, err := input.DestinationFileSystem.OpenFile(ctx, input.DestinationName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		_ = sourceFile.Close() // silently close source file
		return fmt.Errorf("error creating destination file at %q: %w", input.DestinationName, err)
	}

	// copy bytes from source to destination
	written, err := io.Copy(destinationFile, sourceFile)
	if err != nil {
		_ = sourceFile.Close()      // silently close source file
		_ = destinationFile.Close() // silently close destination file
		return fmt.Errorf("error copying from %q to %q: %w", input.SourceName, input.DestinationName, err)
	}

	err = sourceFile.Close()
	if err != nil {
		_ = destinationFile.Close() // silently close destination file
		return fmt.Errorf("error closing source file after copying: %w", err)
	}

	err = destinationFile.Close()
	if err != nil {
		return fmt.Errorf("error closing destination file after copying: %w", err)
	}

	// Preserve modification time
	err = input.DestinationFileSystem.Chtimes(ctx, input.DestinationName, time.Now(), sourceFileInfo.ModTime())
	if err != nil {
		return fmt.Errorf("error changing timestamps for destination after copying: %w", err)
	}

	// Preserve permission bits
	err = input.DestinationFileSystem.Chmod(ctx, input.DestinationName, sourceFileInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("error changing permissions for destination after copying: %w", err)
	}

	if input.Logger != nil {
		_ = input.Logger.Log("Done copying file", map[string]interface{}{
			"src":     input.SourceName,
			"dst":     input.DestinationName,
			"written": written,
		})
	}

	return nil
}
