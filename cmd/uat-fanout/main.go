package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"uat978/internal/fanout"
	"uat978/internal/logging"
)

var (
	// Version information, set by build flags.
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	var port int
	var logDir string
	var verbose bool
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   "uat-fanout",
		Short: "TCP fan-out server for uat-correct output",
		Long: `TCP fan-out server for uat-correct output.

Reads hex-encoded decode lines from stdin and broadcasts each one to every
connected TCP client. Slow clients have their output dropped rather than
stalling the reader.

Example usage:
  uat-demod --device 0 | uat-correct | uat-fanout --port 3333`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("uat-fanout - UAT 978MHz decode fan-out server\n")
				fmt.Printf("Version: %s\n", version)
				fmt.Printf("Build Time: %s\n", buildTime)
				fmt.Printf("Git Commit: %s\n", gitCommit)
				return nil
			}

			logger := logrus.New()
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			} else {
				logger.SetLevel(logrus.InfoLevel)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if logDir != "" {
				rotator, err := logging.NewCaptureRotator(logDir, "uat-fanout", "log", false, logger)
				if err != nil {
					return fmt.Errorf("failed to initialize log rotator: %w", err)
				}
				writer, err := rotator.GetWriter()
				if err != nil {
					return fmt.Errorf("failed to open log writer: %w", err)
				}
				logger.SetOutput(writer)
				go rotator.Start(ctx)
				defer rotator.Close()
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			srv := fanout.NewServer(logger)
			addr := fmt.Sprintf(":%d", port)

			errCh := make(chan error, 1)
			go func() {
				logger.WithField("addr", addr).Info("starting uat-fanout")
				errCh <- srv.Run(ctx, addr, os.Stdin)
			}()

			select {
			case err := <-errCh:
				return err
			case <-sigChan:
				logger.Info("received shutdown signal")
				cancel()
				return <-errCh
			}
		},
	}

	rootCmd.Flags().IntVarP(&port, "port", "p", fanout.DefaultPort, "TCP port to listen on")
	rootCmd.Flags().StringVar(&logDir, "log-dir", "", "Directory for rotating, gzip-compressed log files (default: stderr)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
