package demo

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/spatialgrid/broker/spatial"
)

// EventLogger records one CSV row per delivered event, the same
// latency-measurement shape as demo_client/client.rs's
// ClientEventLogger: the subsecond latency in nanoseconds, and the
// timestamp the acting entity last moved.
type EventLogger struct {
	f *os.File
	w *bufio.Writer
}

// NewEventLogger creates (truncating) the CSV file at path.
func NewEventLogger(path string) (*EventLogger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "demo: creating log file %q", path)
	}
	return &EventLogger{f: f, w: bufio.NewWriter(f)}, nil
}

// Log appends one row for event, measured against latency.
func (l *EventLogger) Log(event *spatial.SpatialEvent[Entity], latency time.Duration) error {
	_, err := fmt.Fprintf(l.w, "%d,%d\n", latency.Nanoseconds()%1e9, event.ActingEntity.LastStateUpdate)
	return err
}

// Close flushes buffered rows and closes the underlying file.
func (l *EventLogger) Close() error {
	if err := l.w.Flush(); err != nil {
		return errors.Wrap(err, "demo: flushing log file")
	}
	return l.f.Close()
}
