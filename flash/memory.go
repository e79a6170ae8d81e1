package flash

import (
	"sync"

	"github.com/zeebo/blake3"
)

// Memory is a simulated NOR flash implementing Driver. Erase sets a block
// to ErasedByte; programming ANDs data into the array so writing over
// unerased cells corrupts them the way real flash does.
//
// Each operation keeps the device busy for a configurable number of Busy
// polls. Memory is safe for concurrent use so a simulator UI can inspect
// it while the launcher programs it.
type Memory struct {
	mu       sync.Mutex
	geometry Geometry
	cells    []byte

	busyPolls int
	busyLeft  int

	erases int
	writes int
	dirty  int
}

// MemoryOption configures a Memory.
type MemoryOption func(*Memory)

// WithGeometry overrides the page and block sizes.
func WithGeometry(g Geometry) MemoryOption {
	return func(m *Memory) {
		if g.Valid() {
			m.geometry = g
		}
	}
}

// WithBusyPolls sets how many Busy calls report true after each erase or
// write.
func WithBusyPolls(n int) MemoryOption {
	return func(m *Memory) {
		if n >= 0 {
			m.busyPolls = n
		}
	}
}

// NewMemory returns an erased flash of size bytes.
func NewMemory(size uint32, opts ...MemoryOption) *Memory {
	m := &Memory{
		geometry:  DefaultGeometry(),
		cells:     make([]byte, size),
		busyPolls: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	for i := range m.cells {
		m.cells[i] = ErasedByte
	}
	return m
}

func (m *Memory) Init() error { return nil }

func (m *Memory) Geometry() Geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.geometry
}

func (m *Memory) EraseBlock(addr uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if addr&(m.geometry.BlockSize-1) != 0 {
		return &AlignmentError{Operation: "erase", Addr: addr, Alignment: m.geometry.BlockSize}
	}
	if err := m.checkRange("erase", addr, m.geometry.BlockSize); err != nil {
		return err
	}

	block := m.cells[addr : addr+m.geometry.BlockSize]
	for i := range block {
		block[i] = ErasedByte
	}
	m.erases++
	m.busyLeft = m.busyPolls
	return nil
}

func (m *Memory) WritePage(addr uint32, page []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.geometry.PageAligned(addr) {
		return &AlignmentError{Operation: "write", Addr: addr, Alignment: m.geometry.PageSize}
	}
	if uint32(len(page)) != m.geometry.PageSize {
		return &RangeError{Operation: "write", Addr: addr, Length: uint32(len(page)), Size: m.geometry.PageSize}
	}
	if err := m.checkRange("write", addr, m.geometry.PageSize); err != nil {
		return err
	}

	cells := m.cells[addr : addr+m.geometry.PageSize]
	corrupted := false
	for i, b := range page {
		if cells[i]&b != b {
			corrupted = true
		}
		cells[i] &= b
	}
	if corrupted {
		m.dirty++
	}
	m.writes++
	m.busyLeft = m.busyPolls
	return nil
}

func (m *Memory) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busyLeft > 0 {
		m.busyLeft--
		return true
	}
	return false
}

// Size returns the flash size in bytes.
func (m *Memory) Size() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint32(len(m.cells))
}

// Read copies length bytes starting at addr. Out-of-range requests are
// clipped to the device.
func (m *Memory) Read(addr, length uint32) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := uint32(len(m.cells))
	if addr >= size {
		return nil
	}
	end := addr + length
	if end > size || end < addr {
		end = size
	}
	out := make([]byte, end-addr)
	copy(out, m.cells[addr:end])
	return out
}

// Digest returns the BLAKE3-256 fingerprint of length bytes at addr.
func (m *Memory) Digest(addr, length uint32) [32]byte {
	return blake3.Sum256(m.Read(addr, length))
}

// Stats reports operation counters since creation.
type Stats struct {
	Erases int
	Writes int

	// Corrupted counts page writes that tried to set bits in cells that
	// were not erased.
	Corrupted int
}

// Stats returns the operation counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Erases: m.erases, Writes: m.writes, Corrupted: m.dirty}
}

func (m *Memory) checkRange(op string, addr, length uint32) error {
	size := uint32(len(m.cells))
	if addr > size || length > size-addr {
		return &RangeError{Operation: op, Addr: addr, Length: length, Size: size}
	}
	return nil
}
