// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package ts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLayout(t *testing.T) {
	assert.Equal(t, Layout(time.RFC3339), ParseLayout("RFC3339"))
	assert.Equal(t, Layout(time.Kitchen), ParseLayout("Kitchen"))
	assert.Equal(t, Layout("Jan 02 15:04"), ParseLayout("Jan 02 15:04"))
}

func TestLayoutFormat(t *testing.T) {
	a := time.Date(2020, time.March, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "2020-03-01T12:30:00Z", ParseLayout("RFC3339").Format(a))
	assert.Equal(t, "2020-03-01", ParseLayout("DateOnly").Format(a))
}
