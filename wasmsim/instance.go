package wasmsim

import (
	"context"
	"io"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	vpi "github.com/wippyai/go-vpi"
	"github.com/wippyai/go-vpi/errors"
)

// HostModule is the import module the guest uses to deliver callbacks.
const HostModule = "vpi_host"

// Config holds configuration for loading a guest simulator.
type Config struct {
	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// Args is the simulator command line, argv[0] included. It is visible
	// to the guest through WASI and vpi_get_vlog_info.
	Args []string

	// Stdout and Stderr receive the guest's standard streams. Nil
	// discards them.
	Stdout io.Writer
	Stderr io.Writer

	// Logger defaults to the package logger.
	Logger *zap.Logger

	// Simulator configures the core Simulator bound to the guest.
	Simulator vpi.Config
}

// Instance is a loaded guest simulator with a core Simulator attached.
type Instance struct {
	runtime wazero.Runtime
	module  api.Module
	guest   *moduleGuest
	native  *Native
	sim     *vpi.Simulator
	log     *zap.Logger
}

// LoadFile reads a guest module from path and loads it.
func LoadFile(ctx context.Context, path string, cfg *Config) (*Instance, error) {
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	return Load(ctx, wasmBytes, cfg)
}

// Load compiles and instantiates a guest simulator. The guest's start
// function, if any, runs during Load; the simulation itself starts with
// Run.
func Load(ctx context.Context, wasmBytes []byte, cfg *Config) (*Instance, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	inst, err := load(ctx, r, wasmBytes, cfg, log)
	if err != nil {
		r.Close(ctx)
		return nil, err
	}
	return inst, nil
}

func load(ctx context.Context, r wazero.Runtime, wasmBytes []byte, cfg *Config, log *zap.Logger) (*Instance, error) {
	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile guest", err)
	}
	if err := checkExports(compiled); err != nil {
		return nil, err
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return nil, errors.Load("instantiate WASI", err)
	}

	native := newNative(log)
	if _, err := instantiateHost(ctx, r, native); err != nil {
		return nil, errors.Load("instantiate "+HostModule, err)
	}

	modCfg := wazero.NewModuleConfig().
		WithName("simulator").
		WithStartFunctions("_initialize").
		WithArgs(cfg.Args...)
	if cfg.Stdout != nil {
		modCfg = modCfg.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		modCfg = modCfg.WithStderr(cfg.Stderr)
	}

	mod, err := r.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return nil, errors.Load("instantiate guest", err)
	}

	g := newModuleGuest(mod)
	g.setContext(ctx)
	if err := native.bind(g); err != nil {
		return nil, err
	}

	simCfg := cfg.Simulator
	if simCfg.Logger == nil {
		simCfg.Logger = log
	}
	sim := vpi.NewWithConfig(native, simCfg)
	native.Attach(sim.Dispatch)

	log.Debug("guest simulator loaded",
		zap.Uint32("memory_bytes", g.mem.Size()),
		zap.Uint32("trampoline", native.trampoline))

	return &Instance{
		runtime: r,
		module:  mod,
		guest:   g,
		native:  native,
		sim:     sim,
		log:     log,
	}, nil
}

// checkExports verifies the guest provides memory and every required
// function.
func checkExports(compiled wazero.CompiledModule) error {
	if len(compiled.ExportedMemories()) == 0 {
		return errors.NotFound(errors.PhaseLoad, "export", "memory")
	}
	funcs := compiled.ExportedFunctions()
	for _, name := range requiredExports {
		if _, ok := funcs[name]; !ok {
			return errors.NotFound(errors.PhaseLoad, "export", name)
		}
	}
	return nil
}

// instantiateHost registers the vpi_host module whose dispatch import
// forwards callback payloads to n.
func instantiateHost(ctx context.Context, r wazero.Runtime, n *Native) (api.Module, error) {
	return r.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, ptr uint32) int32 {
			return n.fire(ptr)
		}).
		Export("dispatch").
		Instantiate(ctx)
}

// Native returns the guest's abi.Interface.
func (i *Instance) Native() *Native {
	return i.native
}

// Simulator returns the core Simulator bound to the guest.
func (i *Instance) Simulator() *vpi.Simulator {
	return i.sim
}

// Run calls every routine against the Simulator, then runs the guest's
// sim_main to completion. Callbacks registered by the routines fire while
// sim_main runs. A WASI exit with status 0 counts as success. Run on a
// closed Instance fails without touching the guest.
func (i *Instance) Run(ctx context.Context, routines ...vpi.StartupFunc) error {
	if i.sim == nil {
		return errors.NotInitialized(errors.PhaseControl, "guest simulator")
	}
	i.guest.setContext(ctx)
	for _, fn := range routines {
		fn(i.sim)
	}

	status, err := i.guest.Call(fnMain)
	if err != nil {
		var exit *sys.ExitError
		if errors.As(err, &exit) && exit.ExitCode() == 0 {
			return nil
		}
		return err
	}
	if int32(status) != 0 {
		return errors.New(errors.PhaseControl, errors.KindNativeRefused).
			Op(fnMain).
			Detail("simulation exited with status %d", int32(status)).
			Build()
	}
	if err := i.native.Err(); err != nil {
		return err
	}
	return nil
}

// Close removes outstanding callbacks and releases the runtime.
func (i *Instance) Close(ctx context.Context) error {
	var firstErr error
	if i.sim != nil {
		i.guest.setContext(ctx)
		if err := i.sim.Close(); err != nil {
			firstErr = err
		}
		i.sim = nil
	}
	if i.runtime != nil {
		if err := i.runtime.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		i.runtime = nil
	}
	i.module = nil
	return firstErr
}
