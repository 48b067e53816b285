package wasmsim

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	vpi "github.com/wippyai/go-vpi"
	"github.com/wippyai/go-vpi/errors"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	if cfg.MemoryLimitPages != 0 {
		t.Errorf("expected default MemoryLimitPages 0, got %d", cfg.MemoryLimitPages)
	}
	if cfg.Stdout != nil || cfg.Stderr != nil {
		t.Error("expected nil writers by default")
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		want    error
		cfg     *Config
		name    string
		missing string
		wasm    []byte
	}{
		{
			name: "not wasm",
			wasm: []byte("not a module"),
			want: errors.Load("", nil),
		},
		{
			name:    "memory only",
			wasm:    memoryOnlyWasm,
			cfg:     &Config{MemoryLimitPages: 16},
			want:    errors.NotFound(errors.PhaseLoad, "", ""),
			missing: fnMalloc,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inst, err := Load(ctx, tc.wasm, tc.cfg)
			if err == nil {
				inst.Close(ctx)
				t.Fatal("expected Load to fail")
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if tc.missing != "" && !strings.Contains(err.Error(), tc.missing) {
				t.Errorf("expected error to name %q, got %v", tc.missing, err)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.wasm")
	_, err := LoadFile(context.Background(), path, nil)
	if !errors.Is(err, errors.Load("", nil)) {
		t.Errorf("expected a load error, got %v", err)
	}
}

func TestRequiredExports(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range requiredExports {
		if seen[name] {
			t.Errorf("duplicate export %q", name)
		}
		seen[name] = true
	}
	for _, name := range []string{fnMalloc, fnFree, fnMain, fnTrampoline, fnRegisterCB, fnPrintf} {
		if !seen[name] {
			t.Errorf("export %q not required", name)
		}
	}
}

func TestRun_Closed(t *testing.T) {
	ctx := context.Background()
	inst := &Instance{}
	if err := inst.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ran := false
	err := inst.Run(ctx, func(*vpi.Simulator) { ran = true })
	if !errors.Is(err, errors.New(errors.PhaseControl, errors.KindNotInitialized).Build()) {
		t.Errorf("expected not-initialized error, got %v", err)
	}
	if ran {
		t.Error("routine ran against a closed instance")
	}
	if inst.Simulator() != nil {
		t.Error("expected no simulator after Close")
	}
}
