// Package logging provides the rotating-file sink shared by all three CLI
// tools (SPEC_FULL.md §2): one dated file per day, gzip-compressed once
// rotated out, pruned after a configurable retention window. Each binary
// points a CaptureRotator's GetWriter at its logrus output via --log-dir;
// the same rotator shape also backs ad hoc binary recording directories
// when a command wants one.
package logging

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CaptureRotator writes whatever is written through GetWriter (in this
// module, the three commands' log output) into a dated file under a
// directory, rotating to a new file and compressing the old one whenever
// the date changes.
type CaptureRotator struct {
	dir         string
	prefix      string
	ext         string
	useUTC      bool
	logger      *logrus.Logger
	currentFile *os.File
	currentDate string
	mutex       sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewCaptureRotator creates a rotator writing prefix_YYYY-MM-DD.ext files
// under dir, creating dir if it does not already exist.
func NewCaptureRotator(dir, prefix, ext string, useUTC bool, logger *logrus.Logger) (*CaptureRotator, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &CaptureRotator{
		dir:    dir,
		prefix: prefix,
		ext:    ext,
		useUTC: useUTC,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := r.rotateFile(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize capture file: %w", err)
	}
	return r, nil
}

// Start runs the rotation scheduler until ctx or the rotator itself is
// canceled.
func (r *CaptureRotator) Start(ctx context.Context) {
	r.logger.WithField("dir", r.dir).Info("starting capture rotator")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.checkRotation()
		}
	}
}

func (r *CaptureRotator) now() time.Time {
	if r.useUTC {
		return time.Now().UTC()
	}
	return time.Now()
}

func (r *CaptureRotator) checkRotation() {
	currentDate := r.now().Format("2006-01-02")

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentDate != currentDate {
		if err := r.rotateFile(); err != nil {
			r.logger.WithError(err).Error("failed to rotate capture file")
		}
	}
}

func (r *CaptureRotator) rotateFile() error {
	newDate := r.now().Format("2006-01-02")

	if r.currentFile != nil {
		oldFile := r.currentFile
		oldDate := r.currentDate
		if err := oldFile.Close(); err != nil {
			r.logger.WithError(err).Error("failed to close previous capture file")
		}
		go r.compressFile(oldDate)
	}

	path := r.filePath(newDate)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create capture file %s: %w", path, err)
	}

	r.currentFile = file
	r.currentDate = newDate
	r.logger.WithField("file", path).Info("opened new capture file")
	return nil
}

func (r *CaptureRotator) filePath(date string) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s_%s.%s", r.prefix, date, r.ext))
}

func (r *CaptureRotator) compressFile(date string) {
	src := r.filePath(date)
	dst := src + ".gz"

	if _, err := os.Stat(src); os.IsNotExist(err) {
		return
	}

	in, err := os.Open(src)
	if err != nil {
		r.logger.WithError(err).WithField("file", src).Error("failed to open capture file for compression")
		return
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		r.logger.WithError(err).WithField("file", dst).Error("failed to create compressed capture file")
		return
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	gz.Name = filepath.Base(src)
	gz.ModTime = time.Now()

	if _, err := io.Copy(gz, in); err != nil {
		r.logger.WithError(err).Error("failed to compress capture file")
		return
	}
	if err := gz.Close(); err != nil {
		r.logger.WithError(err).Error("failed to close gzip writer")
		return
	}
	if err := out.Close(); err != nil {
		r.logger.WithError(err).Error("failed to close compressed capture file")
		return
	}
	if err := os.Remove(src); err != nil {
		r.logger.WithError(err).WithField("file", src).Error("failed to remove original capture file")
	}
}

// GetWriter returns the currently open capture file as an io.Writer.
func (r *CaptureRotator) GetWriter() (io.Writer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentFile == nil {
		return nil, fmt.Errorf("no current capture file")
	}
	return r.currentFile, nil
}

// CurrentFile returns the path of the file currently being written.
func (r *CaptureRotator) CurrentFile() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if r.currentDate == "" {
		return ""
	}
	return r.filePath(r.currentDate)
}

// ListFiles returns every capture file (including compressed ones) under
// the rotator's directory.
func (r *CaptureRotator) ListFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.dir, r.prefix+"_*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list capture files: %w", err)
	}
	return files, nil
}

// CleanupOlderThan removes capture files last modified more than maxDays
// ago, never touching the file currently being written.
func (r *CaptureRotator) CleanupOlderThan(maxDays int) error {
	if maxDays <= 0 {
		return fmt.Errorf("maxDays must be positive")
	}

	files, err := r.ListFiles()
	if err != nil {
		return err
	}

	cutoff := r.now().AddDate(0, 0, -maxDays)
	current := r.CurrentFile()
	removed := 0

	for _, f := range files {
		if f == current {
			continue
		}
		info, err := os.Stat(f)
		if err != nil {
			r.logger.WithError(err).WithField("file", f).Warn("failed to stat capture file")
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(f); err != nil {
				r.logger.WithError(err).WithField("file", f).Error("failed to remove old capture file")
				continue
			}
			removed++
		}
	}

	r.logger.WithField("count", removed).Info("cleaned up old capture files")
	return nil
}

// Close stops the rotation scheduler and closes the current file.
func (r *CaptureRotator) Close() error {
	r.cancel()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentFile != nil {
		err := r.currentFile.Close()
		r.currentFile = nil
		return err
	}
	return nil
}
