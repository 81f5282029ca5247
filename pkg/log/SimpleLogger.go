// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package log

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/navwar/gocopy/pkg/ts"
)

// SimpleLogger writes each message and its fields as a line of JSON.
// SimpleLogger is safe for concurrent use.
type SimpleLogger struct {
	writer   io.Writer
	layout   ts.Layout
	location *time.Location
	mutex    *sync.Mutex
}

func (l *SimpleLogger) Log(msg string, fields ...map[string]interface{}) error {
	m := map[string]interface{}{
		"msg": msg,
		"ts":  l.layout.Format(time.Now().In(l.location)),
	}
	for _, f := range fields {
		for k, v := range f {
			m[k] = v
		}
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return json.NewEncoder(l.writer).Encode(m)
}

func NewSimpleLogger(w io.Writer) *SimpleLogger {
	return NewTimestampLogger(w, ts.NamedLayouts["RFC3339"], time.Local)
}

// NewTimestampLogger returns a SimpleLogger that formats the timestamp
// of each entry with the given layout and location.
func NewTimestampLogger(w io.Writer, layout ts.Layout, location *time.Location) *SimpleLogger {
	return &SimpleLogger{
		writer:   w,
		layout:   layout,
		location: location,
		mutex:    &sync.Mutex{},
	}
}
