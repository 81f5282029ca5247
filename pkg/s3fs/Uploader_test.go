// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploaderWrite(t *testing.T) {
	u := NewUploader(context.Background(), nil, "bucket", false, "prefix/a.txt")

	n, err := u.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = u.Write([]byte(" world"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	assert.Equal(t, "hello world", u.buffer.String())
}

func TestUploaderWriteAfterClose(t *testing.T) {
	u := NewUploader(context.Background(), nil, "bucket", false, "prefix/a.txt")
	u.closed = true

	_, err := u.Write([]byte("hello"))
	assert.Error(t, err)
	assert.Error(t, u.Close())
}
