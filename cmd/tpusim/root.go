// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/db47h/tpusim/hwlib"
	"github.com/db47h/tpusim/internal/config"
	"github.com/db47h/tpusim/tpu"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath     string // YAML configuration file
	duration       uint64 // simulated time units
	seed           int64  // stimulus seed
	maxDeltaRounds int    // delta rounds budget per time instant
	logLevel       string // log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "tpusim",
	Short:         "Event driven simulator for a toy processor",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig loads the configuration file, if any, and applies the flags set
// on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	fs := cmd.Flags()
	if fs.Changed("duration") {
		cfg.Duration = duration
	}
	if fs.Changed("seed") {
		cfg.Seed = seed
	}
	if fs.Changed("max-delta-rounds") {
		cfg.Kernel.MaxDeltaRounds = maxDeltaRounds
	}
	return cfg, cfg.Validate()
}

// runCmd executes the simulation
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the testbench simulation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return errors.Errorf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		r, err := tpu.Simulate(ctx, cfg, logrus.StandardLogger())
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), r)
		return nil
	},
}

func printResult(w io.Writer, r *tpu.Result) {
	fmt.Fprintf(w, "time:        %d\n", r.Time)
	fmt.Fprintf(w, "instants:    %d\n", r.Stats.Instants)
	fmt.Fprintf(w, "rounds:      %d\n", r.Stats.Rounds)
	fmt.Fprintf(w, "evaluations: %d\n", r.Stats.Evaluations)
	fmt.Fprintf(w, "changes:     %d\n", r.Changes)
	fmt.Fprintf(w, "digest:      %016x\n", r.Digest)
	for _, n := range r.Names() {
		fmt.Fprintf(w, "  %-16s 0x%x\n", n, r.Values[n])
	}
}

// decodeCmd decodes a literal instruction word.
var decodeCmd = &cobra.Command{
	Use:   "decode <word>",
	Short: "Decode the fields of a 32 bits instruction word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			return errors.Wrapf(err, "invalid instruction word %q", args[0])
		}
		f := hwlib.DecodeInstruction(uint32(v))
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "fmt:    %d\n", f.Fmt)
		fmt.Fprintf(w, "aluop:  %d\n", f.ALUOp)
		fmt.Fprintf(w, "immed:  0x%06x\n", f.Immed)
		fmt.Fprintf(w, "data20: 0x%06x\n", f.Data20)
		fmt.Fprintf(w, "data16: 0x%06x\n", f.Data16)
		fmt.Fprintf(w, "data12: 0x%06x\n", f.Data12)
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	runCmd.Flags().Uint64Var(&duration, "duration", 2000, "Simulation duration (in time units)")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "Seed for the random stimulus")
	runCmd.Flags().IntVar(&maxDeltaRounds, "max-delta-rounds", 1000, "Delta rounds allowed per time instant")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(decodeCmd)
}
