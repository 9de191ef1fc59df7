package logging

import (
	"bytes"
	"io"
	"log"
	"os"
	"sync"
)

const maxLogSize = 5 * 1024 * 1024 // 5MB

// RotatingWriter keeps the daemon log file from growing without bound.
// When the file passes maxSize it is renamed to <path>.1 and a fresh
// file is started, so at most two generations exist on disk.
type RotatingWriter struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	size    int64
	maxSize int64
}

// Setup routes the standard logger to stdout and a rotating file.
// When level is "debug", lines tagged [DEBUG] are kept; otherwise they
// are dropped before reaching either sink.
func Setup(logPath, level string) (*RotatingWriter, error) {
	// A file over the cap at startup is stale history, start over.
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		os.Truncate(logPath, 0)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	size := int64(0)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	rw := &RotatingWriter{
		file:    f,
		path:    logPath,
		size:    size,
		maxSize: maxLogSize,
	}

	var out io.Writer = io.MultiWriter(os.Stdout, rw)
	if level != "debug" {
		out = &levelFilter{next: out}
	}
	log.SetOutput(out)

	return rw, nil
}

func (w *RotatingWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err = w.file.Write(p)
	w.size += int64(n)

	if w.size > w.maxSize {
		w.rotate()
	}

	return n, err
}

func (w *RotatingWriter) rotate() {
	w.file.Close()

	os.Rename(w.path, w.path+".1")

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return
	}

	w.file = f
	w.size = 0
}

func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

var debugTag = []byte("[DEBUG]")

// levelFilter drops debug-tagged lines. The standard logger writes one
// line per call, so filtering whole writes is safe.
type levelFilter struct {
	next io.Writer
}

func (f *levelFilter) Write(p []byte) (int, error) {
	if bytes.Contains(p, debugTag) {
		return len(p), nil
	}
	return f.next.Write(p)
}
