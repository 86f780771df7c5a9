// Package correctapp wires internal/corrector into a runnable CLI
// application, the way the teacher's internal/app wires internal/adsb and
// internal/basestation together.
package correctapp

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"uat978/internal/corrector"
	"uat978/internal/logging"
	"uat978/internal/wireframe"
)

// Application owns the corrector configuration and the statistics it
// accumulates while draining frames from stdin.
type Application struct {
	config    Config
	corrector corrector.Config
	logger    *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc

	logs *logging.CaptureRotator

	statsMu     sync.Mutex
	total       uint64
	ok          uint64
	uncorrected uint64
}

// NewApplication validates config and builds an Application ready to run.
func NewApplication(config Config) (*Application, error) {
	correctorCfg, err := config.correctorConfig()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config:    config,
		corrector: correctorCfg,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start drains wire frames from stdin until EOF or an interrupt signal,
// writing decoded hex lines to stdout.
func (app *Application) Start() error {
	if app.config.LogDir != "" {
		rotator, err := logging.NewCaptureRotator(app.config.LogDir, "uat-correct", "log", false, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize log rotator: %w", err)
		}
		app.logs = rotator
		writer, err := rotator.GetWriter()
		if err != nil {
			return fmt.Errorf("failed to open log writer: %w", err)
		}
		app.logger.SetOutput(writer)
		go rotator.Start(app.ctx)
		defer rotator.Close()
	}

	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("starting uat-correct")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.reportStatistics()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.run(os.Stdin, os.Stdout)
	}()

	select {
	case err := <-errCh:
		app.cancel()
		wg.Wait()
		if err != nil {
			app.logger.WithError(err).Error("corrector stopped with error")
		}
		return err
	case <-sigChan:
		app.logger.Info("received shutdown signal")
		app.cancel()
		wg.Wait()
		return <-errCh
	}
}

func (app *Application) enabledType(h wireframe.Header) bool {
	if h.Type == wireframe.FISB {
		return !app.config.ADSBOnly
	}
	return !app.config.FISBOnly
}

// failLineEnabled reports whether an uncorrectable frame of h's type should
// produce a "#FAILED-*" archival line on stdout (spec §6). Unlike
// enabledType, this has no default-permissive case: failure reporting is
// off unless its type's flag is explicitly set.
func (app *Application) failLineEnabled(h wireframe.Header) bool {
	if h.Type == wireframe.FISB {
		return app.config.FailFISB
	}
	return app.config.FailADSB
}

// run reads frames from r, decodes each frame whose type is enabled, and
// writes a hex line to w for every one that was corrected. An uncorrectable
// frame writes a "#FAILED-*" line only when its type's fail flag is set.
func (app *Application) run(r io.Reader, w io.Writer) error {
	for {
		select {
		case <-app.ctx.Done():
			return nil
		default:
		}

		h, samples, err := wireframe.ReadFrame(r)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading frame: %w", err)
		}

		if !app.enabledType(h) {
			continue
		}

		if app.config.CaptureDir != "" {
			if err := wireframe.WriteCaptureFile(app.config.CaptureDir, h, samples); err != nil {
				app.logger.WithError(err).Warn("failed to write capture file")
			}
		}

		out := corrector.Decode(h, samples, app.corrector)
		app.recordResult(out)

		if out.Payload != nil {
			if _, err := fmt.Fprintln(w, out.FormatLine()); err != nil {
				return fmt.Errorf("writing output line: %w", err)
			}
			continue
		}

		// Uncorrectable: emit nothing on stdout by default. Only a
		// "#FAILED-*" archival line when the type's fail flag is set, and
		// only a raw-frame capture when --fail-capture-dir is set.
		if app.config.FailCaptureDir != "" {
			if err := wireframe.WriteCaptureFile(app.config.FailCaptureDir, h, samples); err != nil {
				app.logger.WithError(err).Warn("failed to write failure capture file")
			}
		}

		if app.failLineEnabled(h) {
			if _, err := fmt.Fprintln(w, out.FormatFailureLine(string(h.Encode()))); err != nil {
				return fmt.Errorf("writing failure line: %w", err)
			}
		}
	}
}

func (app *Application) recordResult(out corrector.Output) {
	app.statsMu.Lock()
	defer app.statsMu.Unlock()
	app.total++
	if out.Payload != nil {
		app.ok++
	} else {
		app.uncorrected++
	}
}

// reportStatistics reports processing statistics periodically, reusing the
// teacher's 30-second ticker idiom.
func (app *Application) reportStatistics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			app.statsMu.Lock()
			total, ok, uncorrected := app.total, app.ok, app.uncorrected
			app.statsMu.Unlock()

			app.logger.WithFields(logrus.Fields{
				"total_processed": total,
				"corrected":       ok,
				"uncorrectable":   uncorrected,
			}).Info("UAT error-correction statistics")
		}
	}
}
