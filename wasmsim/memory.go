package wasmsim

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/go-vpi/errors"
)

// Memory represents guest linear memory. All multi-byte values are little
// endian.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
	Size() uint32
}

// Allocator allocates memory in guest linear memory.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// WazeroMemory wraps wazero memory to implement Memory.
type WazeroMemory struct {
	mem api.Memory
}

// NewMemory wraps a wazero memory instance.
func NewMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseDecode, "guest memory read", offset, length)
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseEncode, "guest memory write", offset, uint32(len(data)))
	}
	return nil
}

func (m *WazeroMemory) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseDecode, "guest memory read", offset, 4)
	}
	return val, nil
}

func (m *WazeroMemory) ReadU64(offset uint32) (uint64, error) {
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseDecode, "guest memory read", offset, 8)
	}
	return val, nil
}

func (m *WazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseEncode, "guest memory write", offset, 4)
	}
	return nil
}

func (m *WazeroMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseEncode, "guest memory write", offset, 8)
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

var _ Memory = (*WazeroMemory)(nil)

// guest is the part of an instantiated module the backend talks to.
type guest interface {
	Memory() Memory
	Call(name string, args ...uint64) (uint64, error)
}

// moduleGuest calls exports of a wazero module instance.
type moduleGuest struct {
	mod   api.Module
	mem   *WazeroMemory
	funcs map[string]api.Function
	ctx   context.Context
	mu    sync.Mutex
}

func newModuleGuest(mod api.Module) *moduleGuest {
	return &moduleGuest{
		mod:   mod,
		mem:   NewMemory(mod.Memory()),
		funcs: make(map[string]api.Function),
		ctx:   context.Background(),
	}
}

func (g *moduleGuest) setContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

func (g *moduleGuest) Memory() Memory {
	return g.mem
}

// Call invokes an export. Calls may nest: a host import running inside one
// call can make further calls.
func (g *moduleGuest) Call(name string, args ...uint64) (uint64, error) {
	g.mu.Lock()
	fn, ok := g.funcs[name]
	if !ok {
		fn = g.mod.ExportedFunction(name)
		if fn == nil {
			g.mu.Unlock()
			return 0, errors.NotFound(errors.PhaseHost, "export", name)
		}
		g.funcs[name] = fn
	}
	ctx := g.ctx
	g.mu.Unlock()

	results, err := fn.Call(ctx, args...)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseHost, errors.KindNativeRefused, err, name)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0], nil
}

// guestAllocator implements Allocator over the guest's malloc and free.
type guestAllocator struct {
	g guest
}

func (a *guestAllocator) Alloc(size, align uint32) (uint32, error) {
	ptr, err := a.g.Call(fnMalloc, uint64(size))
	if err != nil {
		return 0, err
	}
	if uint32(ptr) == 0 {
		return 0, errors.New(errors.PhaseEncode, errors.KindNativeRefused).
			Op(fnMalloc).
			Detail("guest allocation of %d bytes failed", size).
			Build()
	}
	return uint32(ptr), nil
}

func (a *guestAllocator) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	if _, err := a.g.Call(fnFree, uint64(ptr)); err != nil {
		Logger().Warn("Free: failed to call guest free",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

var _ Allocator = (*guestAllocator)(nil)
