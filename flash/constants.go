package flash

// ErasedByte is the value of every byte in an erased block.
const ErasedByte = 0xFF

// Default geometry of the SAMD51 NVM controller.
const (
	// DefaultPageSize is the program granularity in bytes
	DefaultPageSize = 512

	// DefaultBlockSize is the erase granularity in bytes (16 pages)
	DefaultBlockSize = 8192

	// DefaultSize is the total flash size in bytes
	DefaultSize = 0x80000
)

// Geometry describes the erase and program granularity of a flash device.
type Geometry struct {
	// PageSize is the number of bytes written by one WritePage call
	PageSize uint32

	// BlockSize is the number of bytes cleared by one EraseBlock call
	BlockSize uint32
}

// DefaultGeometry returns the SAMD51 page and block sizes.
func DefaultGeometry() Geometry {
	return Geometry{PageSize: DefaultPageSize, BlockSize: DefaultBlockSize}
}

// Valid reports whether both sizes are powers of two and a block holds a
// whole number of pages.
func (g Geometry) Valid() bool {
	return isPow2(g.PageSize) && isPow2(g.BlockSize) && g.PageSize <= g.BlockSize
}

// BlockOf returns the block-aligned address containing addr.
func (g Geometry) BlockOf(addr uint32) uint32 {
	return addr &^ (g.BlockSize - 1)
}

// PageAligned reports whether addr starts a page.
func (g Geometry) PageAligned(addr uint32) bool {
	return addr&(g.PageSize-1) == 0
}

func isPow2(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}
