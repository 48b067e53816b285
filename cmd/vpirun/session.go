package main

import (
	"context"
	"io"

	vpi "github.com/wippyai/go-vpi"
	"github.com/wippyai/go-vpi/vpitest"
	"github.com/wippyai/go-vpi/wasmsim"
)

// session is a simulator ready to run routines.
type session struct {
	sim   *vpi.Simulator
	run   func(ctx context.Context, fns ...vpi.StartupFunc) error
	close func(ctx context.Context) error
}

func openSession(ctx context.Context, opts *options, stdout, stderr io.Writer) (*session, error) {
	if opts.demo {
		return demoSession(opts, stdout), nil
	}
	return wasmSession(ctx, opts, stdout, stderr)
}

// demoSession runs routines against the vpitest counter testbench. The
// demo collects vpi_printf output in memory; it is copied to stdout after
// every run.
func demoSession(opts *options, stdout io.Writer) *session {
	d := vpitest.NewDemo()
	for _, arg := range opts.args {
		d.Info.Argv = append(d.Info.Argv, []byte(arg))
	}
	sim := vpi.New(d)
	d.Attach(sim.Dispatch)

	return &session{
		sim: sim,
		run: func(_ context.Context, fns ...vpi.StartupFunc) error {
			for _, fn := range fns {
				fn(sim)
			}
			d.Run(opts.cycles)
			_, err := d.Output.WriteTo(stdout)
			return err
		},
		close: func(context.Context) error {
			return sim.Close()
		},
	}
}

func wasmSession(ctx context.Context, opts *options, stdout, stderr io.Writer) (*session, error) {
	inst, err := wasmsim.LoadFile(ctx, opts.wasm, &wasmsim.Config{
		MemoryLimitPages: opts.memoryPages,
		Args:             append([]string{opts.wasm}, opts.args...),
		Stdout:           stdout,
		Stderr:           stderr,
	})
	if err != nil {
		return nil, err
	}
	return &session{
		sim:   inst.Simulator(),
		run:   inst.Run,
		close: inst.Close,
	}, nil
}
