// Package cli implements the cadence command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robmorgan/cadence/config"
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/timeline"
	"github.com/robmorgan/cadence/trackfile"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cadence CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cadence",
		Short: "Cadence - choreography cues for indoor cycling",
		Long:  "Resolves an authored ride timeline against the music position and shows the instructor what to cue.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			if opts.Verbose {
				return logger.SetLevel("debug")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLocateCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func loadTrack(f *OutputFormatter, path string) (*timeline.Track, error) {
	track, err := trackfile.Load(path)
	if err != nil {
		code := ErrCodeLoadFailed
		if errors.Is(err, trackfile.ErrTrackNotFound) {
			code = ErrCodeNotFound
		}
		return nil, f.Fail(ExitCommandError, code, "loading track", err, map[string]string{"path": path})
	}

	f.VerboseLog("Loaded %q with %d segment(s) from %s", track.Name, len(track.Segments), path)
	return track, nil
}

// loadConfig returns the defaults when path is empty. The configured log level applies unless
// --verbose was given.
func loadConfig(opts *RootOptions, f *OutputFormatter, path string) (config.CadenceConfig, error) {
	cfg := config.NewCadenceConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			code := ErrCodeInvalidConfig
			if errors.Is(err, config.ErrConfigNotFound) {
				code = ErrCodeNotFound
			}
			return cfg, f.Fail(ExitCommandError, code, "loading config", err, map[string]string{"path": path})
		}
	}

	if !opts.Verbose {
		if err := logger.SetLevel(cfg.LogLevel); err != nil {
			return cfg, f.Fail(ExitCommandError, ErrCodeInvalidConfig, "setting log level", err, map[string]string{"logLevel": cfg.LogLevel})
		}
	}
	return cfg, nil
}
