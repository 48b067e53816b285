// Command vpirun runs go-vpi startup routines against a simulator: either
// a WebAssembly guest simulator or the built-in demo testbench.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	vpi "github.com/wippyai/go-vpi"
	"github.com/wippyai/go-vpi/internal/routines"
	"github.com/wippyai/go-vpi/wasmsim"
)

type options struct {
	wasm        string
	demo        bool
	cycles      int
	memoryPages uint32
	logLevel    string
	args        []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "vpirun",
		Short:         "Run VPI startup routines against a simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.demo == (opts.wasm != "") {
				return fmt.Errorf("exactly one of --wasm or --demo is required")
			}
			log, err := newLogger(opts.logLevel)
			if err != nil {
				return err
			}
			vpi.SetLogger(log)
			wasmsim.SetLogger(log)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.wasm, "wasm", "", "path to a guest simulator wasm file")
	flags.BoolVar(&opts.demo, "demo", false, "use the built-in demo testbench")
	flags.IntVar(&opts.cycles, "cycles", 8, "clock cycles to simulate in demo mode")
	flags.Uint32Var(&opts.memoryPages, "memory-limit-pages", 0, "guest memory limit in 64KiB pages (0 = default)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringSliceVar(&opts.args, "plusarg", nil, "extra simulator arguments, e.g. +trace")

	for _, name := range routines.Names() {
		root.AddCommand(newRoutineCmd(opts, name))
	}
	root.AddCommand(newAllCmd(opts), newBrowseCmd(opts))
	return root
}

var routineHelp = map[string]string{
	"info":      "Print the simulator product and version",
	"dump":      "Print the design hierarchy and every value change",
	"timescale": "Print the timescale of every top-level module",
}

func newRoutineCmd(opts *options, name string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: routineHelp[name],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoutines(cmd, opts, routines.All[name])
		},
	}
}

func newAllCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every routine in name order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var fns []vpi.StartupFunc
			for _, name := range routines.Names() {
				fns = append(fns, routines.All[name])
			}
			return runRoutines(cmd, opts, fns...)
		},
	}
}

func runRoutines(cmd *cobra.Command, opts *options, fns ...vpi.StartupFunc) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close(ctx)
	return s.run(ctx, fns...)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
