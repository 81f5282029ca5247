// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"strings"
)

// Split splits the s3 path using "/" and drops empty elements
func Split(p string) []string {
	names := []string{}
	for _, name := range strings.Split(p, "/") {
		if len(name) > 0 {
			names = append(names, name)
		}
	}
	return names
}
