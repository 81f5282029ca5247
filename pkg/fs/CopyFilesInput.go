// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"os"
)

type CopyFilesInput struct {
	SourceDirectory       string
	SourceFileSystem      FileSystem
	DestinationDirectory  string
	DestinationFileSystem FileSystem
	FileNames             []string
	DirectoryMode         os.FileMode
	Logger                Logger
}
