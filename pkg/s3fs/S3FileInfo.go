// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"encoding/json"
	"os"
	"time"
)

type S3FileInfo struct {
	name    string
	modTime time.Time
	dir     bool
	size    int64
}

func (fi *S3FileInfo) IsDir() bool {
	return fi.dir
}

// Mode returns a synthetic mode, as s3 objects do not carry permission bits.
func (fi *S3FileInfo) Mode() os.FileMode {
	if fi.dir {
		return os.FileMode(0755) | os.ModeDir
	}
	return os.FileMode(0666)
}

func (fi *S3FileInfo) ModTime() time.Time {
	return fi.modTime
}

func (fi *S3FileInfo) Name() string {
	return fi.name
}

func (fi *S3FileInfo) Size() int64 {
	return fi.size
}

func (fi *S3FileInfo) String() string {
	return fi.name
}

func (fi *S3FileInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"dir":     fi.dir,
		"modTime": fi.modTime,
		"name":    fi.name,
		"size":    fi.size,
	})
}

func NewS3FileInfo(name string, modTime time.Time, dir bool, size int64) *S3FileInfo {
	return &S3FileInfo{
		name:    name,
		modTime: modTime,
		dir:     dir,
		size:    size,
	}
}
