// Package nlog is the broker's logger: leveled and buffered, with the
// buffer flushed on every warning or error, on the first write after
// flushEvery has passed, and on Flush.
package nlog

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var sevChar = [...]byte{'I', 'W', 'E'}

const flushEvery = 2 * time.Second

var (
	toStderr     bool
	alsoToStderr bool

	mu       sync.Mutex
	w        *bufio.Writer
	f        *os.File
	lastFlush time.Time

	onceInit sync.Once
)

// InitFlags registers the broker's two logging-related flags on flset,
// mirroring the teacher's dual stderr-echo knobs.
func InitFlags(flset *flag.FlagSet) {
	flset.BoolVar(&toStderr, "logtostderr", false, "log to standard error instead of a file")
	flset.BoolVar(&alsoToStderr, "alsologtostderr", false, "log to standard error as well as the log file")
}

// SetOutputFile directs file-backed logging at path. Safe to call
// before the first log line. The file is opened even when toStderr is
// set, but lines then still go only to standard error.
func SetOutputFile(path string) error {
	mu.Lock()
	defer mu.Unlock()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if f != nil {
		w.Flush()
		f.Close()
	}
	f = file
	w = bufio.NewWriterSize(f, 32*1024)
	return nil
}

func Infof(format string, args ...any)    { log(sevInfo, format, args...) }
func Warningf(format string, args ...any) { log(sevWarn, format, args...) }
func Errorf(format string, args ...any)   { log(sevErr, format, args...) }

func log(sev severity, format string, args ...any) {
	onceInit.Do(func() { lastFlush = time.Now() })

	line := formatLine(sev, format, args...)

	if toStderr || f == nil {
		os.Stderr.WriteString(line)
		return
	}

	mu.Lock()
	w.WriteString(line)
	if sev >= sevWarn || time.Since(lastFlush) > flushEvery {
		w.Flush()
		lastFlush = time.Now()
	}
	mu.Unlock()

	if alsoToStderr || sev >= sevErr {
		os.Stderr.WriteString(line)
	}
}

// Flush forces any buffered lines to disk. Call before process exit.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		w.Flush()
	}
}

func formatLine(sev severity, format string, args ...any) string {
	var b strings.Builder
	b.WriteByte(sevChar[sev])
	b.WriteByte(' ')
	b.WriteString(time.Now().Format("15:04:05.000000"))
	b.WriteByte(' ')
	if _, file, line, ok := runtime.Caller(3); ok {
		b.WriteString(filepath.Base(file))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(line))
		b.WriteByte(' ')
	}
	if format == "" {
		fmt.Fprintln(&b, args...)
	} else {
		fmt.Fprintf(&b, format, args...)
		if !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
