package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"uat978/internal/demod"
	"uat978/internal/demodapp"
)

func main() {
	var config demodapp.Config
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "uat-demod",
		Short: "UAT 978MHz demodulator",
		Long: `UAT 978MHz demodulator.

Reads a CS16 I/Q stream from stdin, a replayed file, or an RTL-SDR dongle,
FM-differential demodulates it, detects FIS-B and ADS-B sync words, and
writes framed packet samples to stdout for uat-correct.

Example usage:
  uat-demod --device 0 --capture-dir ./captures`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				demodapp.ShowVersion()
				return nil
			}
			if err := applyConfigFile(cmd, configFile, &config); err != nil {
				return err
			}

			app := demodapp.NewApplication(config)
			return app.Start()
		},
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file; flags override its values")
	rootCmd.Flags().BoolVar(&config.FISBOnly, "fisb-only", false, "Only search for FIS-B sync words")
	rootCmd.Flags().BoolVar(&config.ADSBOnly, "adsb-only", false, "Only search for ADS-B sync words")
	rootCmd.Flags().Uint32Var(&config.Level, "level", demod.DefaultLevelThreshold, "Signal-presence gate threshold")
	rootCmd.Flags().BoolVar(&config.ReplayTime, "replay-time", false, "Use a synthetic replay clock instead of the wall clock")
	rootCmd.Flags().StringVar(&config.CaptureDir, "capture-dir", "", "Directory to write a copy of every emitted frame")
	rootCmd.Flags().StringVar(&config.LogDir, "log-dir", "", "Directory for rotating, gzip-compressed log files (default: stderr)")
	rootCmd.Flags().IntVarP(&config.Device, "device", "d", -1, "RTL-SDR device index (-1 disables live capture, reads stdin)")
	rootCmd.Flags().Uint32VarP(&config.Frequency, "freq", "f", demodapp.DefaultFrequency, "Frequency to tune to (Hz)")
	rootCmd.Flags().Uint32VarP(&config.SampleRate, "sample-rate", "s", demodapp.DefaultSampleRate, "Sample rate (Hz)")
	rootCmd.Flags().IntVarP(&config.Gain, "gain", "g", demodapp.DefaultGain, "Gain setting (0 for auto)")
	rootCmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&config.ShowVersion, "version", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyConfigFile loads path (if non-empty) and fills in any flag the user
// did not pass explicitly on the command line, so CLI flags always win
// over the file per cobra/pflag's normal precedence. A zero level, freq,
// sample-rate or gain in the file counts as unset.
func applyConfigFile(cmd *cobra.Command, path string, config *demodapp.Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	fileConfig := demodapp.Config{Device: -1}
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("fisb-only") {
		config.FISBOnly = fileConfig.FISBOnly
	}
	if !flags.Changed("adsb-only") {
		config.ADSBOnly = fileConfig.ADSBOnly
	}
	if !flags.Changed("level") && fileConfig.Level != 0 {
		config.Level = fileConfig.Level
	}
	if !flags.Changed("replay-time") {
		config.ReplayTime = fileConfig.ReplayTime
	}
	if !flags.Changed("capture-dir") && fileConfig.CaptureDir != "" {
		config.CaptureDir = fileConfig.CaptureDir
	}
	if !flags.Changed("log-dir") && fileConfig.LogDir != "" {
		config.LogDir = fileConfig.LogDir
	}
	if !flags.Changed("device") && fileConfig.Device >= 0 {
		config.Device = fileConfig.Device
	}
	if !flags.Changed("freq") && fileConfig.Frequency != 0 {
		config.Frequency = fileConfig.Frequency
	}
	if !flags.Changed("sample-rate") && fileConfig.SampleRate != 0 {
		config.SampleRate = fileConfig.SampleRate
	}
	if !flags.Changed("gain") && fileConfig.Gain != 0 {
		config.Gain = fileConfig.Gain
	}
	if !flags.Changed("verbose") {
		config.Verbose = fileConfig.Verbose
	}
	return nil
}
