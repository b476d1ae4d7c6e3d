// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"glitch/internal/analysis"
	"glitch/internal/audio"
	"glitch/internal/pipeline"
	"glitch/internal/tui"
	"glitch/internal/wavfile"
)

func newOpsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List operations, one per line: name then parameter names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, op := range pipeline.Ops() {
				fields := []string{op.Name}
				for _, p := range op.Params {
					fields = append(fields, p.Name)
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(fields, " "))
			}
		},
	}
}

func newPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick [input.wav]",
		Short: "Choose an operation interactively and print its usage",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("%w: pick needs an interactive terminal, use 'ops' for a plain listing",
					pipeline.ErrArgument)
			}

			var input string
			if len(args) == 1 {
				input = args[0]
			}

			op, err := tui.Pick(pipeline.Ops(), input)
			if err != nil {
				return err
			}
			if op != nil {
				fmt.Fprintln(cmd.OutOrStdout(), op.Usage())
			}
			return nil
		},
	}
}

func newInfoCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.wav>...",
		Short: "Print levels, pseudo-cycle and spectrum statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				b, err := wavfile.ReadFile(path)
				if err != nil {
					return err
				}

				report, err := analysis.Analyze(b, analysis.Options{
					FFTSize: o.cfg.Analysis.FFTSize,
					Window:  o.cfg.WindowFunc(),
				})
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderReport(filepath.Base(path), report))
			}
			return nil
		},
	}
}

func newPlayCommand(o *options) *cobra.Command {
	var (
		gate      bool
		threshold float64
	)

	playCmd := &cobra.Command{
		Use:   "play <file.wav>",
		Short: "Play a file through the output device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := wavfile.ReadFile(args[0])
			if err != nil {
				return err
			}

			player := audio.NewPlayer(b, o.playerOptions())
			if gate {
				player.EnableGate()
				player.SetGateThreshold(threshold)
			}
			return player.Play(cmd.Context())
		},
	}

	playCmd.Flags().BoolVarP(&gate, "gate", "g", false,
		"Skip leading silence")
	playCmd.Flags().Float64VarP(&threshold, "gate-threshold", "t", 0,
		"Peak level (0.0-1.0) below which leading frames count as silence")

	return playCmd
}

func newDevicesCommand() *cobra.Command {
	var all bool

	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "List available audio output devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := audio.GetDevices()
			if err != nil {
				return err
			}
			audio.ListDevices(cmd.OutOrStdout(), devices, !all)
			return nil
		},
	}

	devicesCmd.Flags().BoolVarP(&all, "all", "a", false,
		"Include input-only devices")

	return devicesCmd
}
