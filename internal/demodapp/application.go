// Package demodapp wires internal/demod and internal/iqsource into a
// runnable CLI application, the way the teacher's internal/app wires
// internal/rtlsdr and internal/adsb together.
package demodapp

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"uat978/internal/demod"
	"uat978/internal/iqsource"
	"uat978/internal/logging"
	"uat978/internal/wireframe"
)

// Application owns the demodulator, its I/Q source, and the plumbing that
// turns emitted frames into wire output and (optionally) capture files.
type Application struct {
	config Config
	logger *logrus.Logger
	source iqsource.Source
	logs   *logging.CaptureRotator

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApplication creates a new Application instance.
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start runs the demodulator to completion (stdin/file EOF) or until an
// interrupt signal arrives.
func (app *Application) Start() error {
	if app.config.LogDir != "" {
		rotator, err := logging.NewCaptureRotator(app.config.LogDir, "uat-demod", "log", false, app.logger)
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
	}).Info("starting uat-demod")

	if err := app.initializeSource(); err != nil {
		return fmt.Errorf("failed to initialize I/Q source: %w", err)
	}
	defer app.source.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			app.logger.WithError(err).Error("demodulator stopped with error")
		}
		return err
	case <-sigChan:
		app.logger.Info("received shutdown signal")
		app.cancel()
		return <-errCh
	}
}

func (app *Application) initializeSource() error {
	if app.config.Device >= 0 {
		app.logger.WithFields(logrus.Fields{
			"device": app.config.Device,
			"freq":   app.config.Frequency,
		}).Info("using RTL-SDR live capture")
		app.source = iqsource.NewRTLSDRSource(app.config.Device, app.config.Frequency, app.config.SampleRate, app.config.Gain)
		return nil
	}

	app.logger.Info("using stdin as I/Q source")
	app.source = iqsource.NewFileSource(os.Stdin)
	return nil
}

// run drives the demodulator's per-sample loop, emitting wire frames to
// stdout and, if configured, a copy of each frame to CaptureDir.
func (app *Application) run() error {
	r, err := app.source.Open(app.ctx)
	if err != nil {
		return fmt.Errorf("opening I/Q source: %w", err)
	}

	d := demod.New(app.config.demodConfig())

	frames := 0
	for {
		select {
		case <-app.ctx.Done():
			return nil
		default:
		}

		i, q, err := wireframe.ReadIQPair(r)
		if err != nil {
			if err == io.EOF {
				app.logger.WithField("frames", frames).Info("I/Q stream exhausted")
				return nil
			}
			return fmt.Errorf("reading I/Q stream: %w", err)
		}

		frame := d.Step(i, q)
		if frame == nil {
			continue
		}

		frames++
		app.logger.WithFields(logrus.Fields{
			"type":  frame.Header.Type,
			"level": frame.Header.Level,
		}).Debug("emitted frame")

		if err := wireframe.WriteFrame(os.Stdout, frame.Header, frame.Samples); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}

		if app.config.CaptureDir != "" {
			if err := wireframe.WriteCaptureFile(app.config.CaptureDir, frame.Header, frame.Samples); err != nil {
				app.logger.WithError(err).Warn("failed to write capture file")
			}
		}
	}
}
