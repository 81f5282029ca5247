// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"io"
)

type File interface {
	io.Reader
	io.Writer
	io.Closer
	Name() string
}
