// SPDX-License-Identifier: MIT
//
// Package cmd wires the command line: the processing chain on the root
// command plus the ops, pick, info, play and devices subcommands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"glitch/internal/audio"
	"glitch/internal/config"
	"glitch/internal/log"
	"glitch/internal/pcm"
	"glitch/internal/pipeline"
	"glitch/internal/wavfile"
	"glitch/pkg/build"
)

// Exit codes returned by the process.
const (
	ExitOK = iota
	ExitArgument
	ExitIO
	ExitParse
	ExitFormat
	ExitNonFinite
)

// ExitCode maps an error returned by Execute to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, pipeline.ErrArgument):
		return ExitArgument
	case errors.Is(err, wavfile.ErrIO):
		return ExitIO
	case errors.Is(err, pipeline.ErrParse):
		return ExitParse
	case errors.Is(err, wavfile.ErrFormat),
		errors.Is(err, wavfile.ErrUnsupportedEncoding),
		errors.Is(err, pcm.ErrInvalidLayout):
		return ExitFormat
	case errors.Is(err, pipeline.ErrNonFinite):
		return ExitNonFinite
	default:
		return ExitArgument
	}
}

// options holds the flags shared by every command.
type options struct {
	configPath string
	verbose    bool
	strict     bool
	play       bool

	deviceID        int
	framesPerBuffer int
	lowLatency      bool

	cfg *config.Config
}

// NewRootCommand builds the command tree. Command output goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	buildInfo := build.GetBuildFlags()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name + " [flags] <input.wav> [[count] <operation> [args...]]... <output.wav>",
		Short:         buildInfo.Description,
		Version:       build.VersionString(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("%w: expected an input and an output file, got %d argument(s)",
					pipeline.ErrArgument, len(args))
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChain(cmd.Context(), opts, args)
		},
	}
	rootCmd.SetOut(out)

	// Operation arguments may be negative numbers, so flags end at the
	// input file.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "",
		"Config file (default "+config.DefaultConfigFile+" in the working directory if present)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log every pipeline step")
	pf.BoolVarP(&opts.strict, "strict", "s", config.DefaultStrict,
		"Fail when a step leaves a NaN or infinite sample")

	// Playback Configuration
	pf.IntVarP(&opts.deviceID, "device", "d", config.DefaultDevice,
		"Output device ID for playback. Use the 'devices' command to see available devices.")
	pf.IntVarP(&opts.framesPerBuffer, "frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"The number of frames per playback buffer (affects latency)")
	pf.BoolVarP(&opts.lowLatency, "low-latency", "l", false,
		"Use the device's low output latency")

	rootCmd.Flags().BoolVarP(&opts.play, "play", "p", false,
		"Play the result after it has been written")

	rootCmd.AddCommand(
		newOpsCommand(),
		newPickCommand(),
		newInfoCommand(opts),
		newPlayCommand(opts),
		newDevicesCommand(),
	)

	return rootCmd
}

// Execute runs the command line with args, excluding the program name.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	if args == nil {
		// cobra reads os.Args for a nil slice.
		args = []string{}
	}
	rootCmd := NewRootCommand(out)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// load reads the configuration and lets explicitly set flags override it.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Strict = o.strict
	}
	if flags.Changed("device") {
		cfg.Playback.Device = o.deviceID
	}
	if flags.Changed("frames-per-buffer") {
		cfg.Playback.FramesPerBuffer = o.framesPerBuffer
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)
	log.Debugf("config: %+v", *cfg)

	o.cfg = cfg
	return nil
}

func (o *options) playerOptions() audio.Options {
	return audio.Options{
		DeviceID:        o.cfg.Playback.Device,
		FramesPerBuffer: o.cfg.Playback.FramesPerBuffer,
		LowLatency:      o.lowLatency,
	}
}

// runChain reads the input, applies the chain and writes the output. Nothing
// is written when a step fails.
func runChain(ctx context.Context, o *options, args []string) error {
	input, output := args[0], args[len(args)-1]
	tokens := args[1 : len(args)-1]

	start := time.Now()

	b, err := wavfile.ReadFile(input)
	if err != nil {
		return err
	}
	log.Debugf("read %s: %s", input, b)

	runner := pipeline.Runner{Strict: o.cfg.Strict}
	b, err = runner.Run(b, tokens)
	if err != nil {
		return err
	}

	if err := wavfile.WriteFile(output, b); err != nil {
		return err
	}
	log.Infof("%s -> %s: %s in %v", input, output, b, time.Since(start).Round(time.Millisecond))

	if o.play {
		return audio.NewPlayer(b, o.playerOptions()).Play(ctx)
	}
	return nil
}
