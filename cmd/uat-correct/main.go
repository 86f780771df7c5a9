package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"uat978/internal/correctapp"
)

func main() {
	var config correctapp.Config
	var configFile string
	var firstSixBytes string

	rootCmd := &cobra.Command{
		Use:   "uat-correct",
		Short: "UAT 978MHz Reed-Solomon error corrector",
		Long: `UAT 978MHz Reed-Solomon error corrector.

Reads framed I/Q packet samples from stdin (as produced by uat-demod),
slices them into soft bits, Reed-Solomon decodes each FIS-B or ADS-B
frame, and writes one hex-encoded result line per corrected frame to
stdout (uncorrectable frames print nothing unless --fail-fisb or
--fail-adsb is set).

Example usage:
  uat-demod --device 0 | uat-correct --capture-dir ./captures`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				correctapp.ShowVersion()
				return nil
			}
			if firstSixBytes != "" {
				config.FirstSixBytes = strings.Split(firstSixBytes, ",")
			}
			if err := applyConfigFile(cmd, configFile, &config); err != nil {
				return err
			}

			app, err := correctapp.NewApplication(config)
			if err != nil {
				return err
			}
			return app.Start()
		},
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file; flags override its values")
	rootCmd.Flags().BoolVar(&config.FISBOnly, "fisb-only", false, "Only decode FIS-B frames")
	rootCmd.Flags().BoolVar(&config.ADSBOnly, "adsb-only", false, "Only decode ADS-B frames")
	rootCmd.Flags().BoolVar(&config.NoTrailingZeroRepair, "no-trailing-zero-repair", false, "Disable trailing-zero-byte repair for short/punctured codewords")
	rootCmd.Flags().BoolVar(&config.NoFixedBitRepair, "no-fixed-bit-repair", false, "Disable known-fixed-bit repair before Reed-Solomon decoding")
	rootCmd.Flags().StringVar(&firstSixBytes, "first-six-bytes", "", "Comma-separated hex candidates for the packet's first six bytes")
	rootCmd.Flags().StringVar(&config.OverlayPolicy, "legacy-overlay-policy", "strict", "First-six-bytes overlay policy: strict or permissive")
	rootCmd.Flags().BoolVar(&config.FailFISB, "fail-fisb", false, "Emit a #FAILED-FIS-B archival line on stdout for uncorrectable FIS-B frames")
	rootCmd.Flags().BoolVar(&config.FailADSB, "fail-adsb", false, "Emit a #FAILED-ADS-B archival line on stdout for uncorrectable ADS-B frames")
	rootCmd.Flags().StringVar(&config.CaptureDir, "capture-dir", "", "Directory to write a copy of every frame received")
	rootCmd.Flags().StringVar(&config.FailCaptureDir, "fail-capture-dir", "", "Directory to write the raw frame of every packet that could not be corrected")
	rootCmd.Flags().StringVar(&config.LogDir, "log-dir", "", "Directory for rotating, gzip-compressed log files (default: stderr)")
	rootCmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&config.ShowVersion, "version", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyConfigFile loads path (if non-empty) and fills in any flag the user
// did not pass explicitly on the command line, so CLI flags always win
// over the file per cobra/pflag's normal precedence.
func applyConfigFile(cmd *cobra.Command, path string, config *correctapp.Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig correctapp.Config
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
	if !flags.Changed("no-trailing-zero-repair") {
		config.NoTrailingZeroRepair = fileConfig.NoTrailingZeroRepair
	}
	if !flags.Changed("no-fixed-bit-repair") {
		config.NoFixedBitRepair = fileConfig.NoFixedBitRepair
	}
	if !flags.Changed("first-six-bytes") && len(fileConfig.FirstSixBytes) > 0 {
		config.FirstSixBytes = fileConfig.FirstSixBytes
	}
	if !flags.Changed("legacy-overlay-policy") && fileConfig.OverlayPolicy != "" {
		config.OverlayPolicy = fileConfig.OverlayPolicy
	}
	if !flags.Changed("fail-fisb") {
		config.FailFISB = fileConfig.FailFISB
	}
	if !flags.Changed("fail-adsb") {
		config.FailADSB = fileConfig.FailADSB
	}
	if !flags.Changed("capture-dir") && fileConfig.CaptureDir != "" {
		config.CaptureDir = fileConfig.CaptureDir
	}
	if !flags.Changed("fail-capture-dir") && fileConfig.FailCaptureDir != "" {
		config.FailCaptureDir = fileConfig.FailCaptureDir
	}
	if !flags.Changed("log-dir") && fileConfig.LogDir != "" {
		config.LogDir = fileConfig.LogDir
	}
	if !flags.Changed("verbose") {
		config.Verbose = fileConfig.Verbose
	}
	return nil
}
