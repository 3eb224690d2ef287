package logger

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// DailyWriter appends to <dir>/<YYYY-MM-DD>.log and switches files when the
// date in loc changes. A failure to close the previous file is returned
// from the Write that switched, after p has been written to the new file.
type DailyWriter struct {
	dir string
	loc *time.Location
	now func() time.Time

	mu   sync.Mutex
	day  string
	file *os.File
}

// NewDailyWriter creates a DailyWriter. The first file is opened on the first
// write.
func NewDailyWriter(dir string, loc *time.Location) *DailyWriter {
	if loc == nil {
		loc = time.Local
	}
	return &DailyWriter{dir: dir, loc: loc, now: time.Now}
}

func (w *DailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now().In(w.loc)
	day := now.Format("2006-01-02")

	var closeErr error
	if w.file == nil || day != w.day {
		f, err := OpenDailyFile(w.dir, now)
		if err != nil {
			return 0, err
		}
		if w.file != nil {
			if err := w.file.Close(); err != nil {
				closeErr = fmt.Errorf("close log file for %s: %w", w.day, err)
			}
		}
		w.file, w.day = f, day
	}

	n, err := w.file.Write(p)
	return n, errors.Join(err, closeErr)
}

// Close closes the current file.
func (w *DailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
