package boot

import (
	"encoding/hex"
	"fmt"

	"github.com/moffa90/go-multiboot/flash"
)

// Logger matches appmgr.Logger.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Image describes what a simulated jump found in flash.
type Image struct {
	Offset uint32
	Vector VectorTable

	// Fingerprint is the BLAKE3 digest of the flash from Offset to the
	// end of the application window
	Fingerprint [32]byte
}

func (i Image) String() string {
	return fmt.Sprintf("image at 0x%08X (%s) blake3=%s",
		i.Offset, i.Vector, hex.EncodeToString(i.Fingerprint[:8]))
}

// Simulated is the host stand-in for Native. Jump inspects the image in a
// simulated flash, reports it through Exit and then parks the calling
// goroutine forever, so the caller observes the same non-returning
// behaviour as on hardware.
type Simulated struct {
	Memory *flash.Memory

	// Limit is one past the last address of the application window
	Limit uint32

	// Exit receives the image before the goroutine parks (optional)
	Exit func(Image)

	Logger Logger
}

// Inspect reads the image header at offset without jumping.
func (s *Simulated) Inspect(offset uint32) (Image, error) {
	vt, err := ParseVectorTable(s.Memory.Read(offset, VectorTableHeaderSize))
	if err != nil {
		return Image{}, err
	}
	limit := s.Limit
	if limit == 0 || limit > s.Memory.Size() {
		limit = s.Memory.Size()
	}
	var length uint32
	if limit > offset {
		length = limit - offset
	}
	return Image{
		Offset:      offset,
		Vector:      vt,
		Fingerprint: s.Memory.Digest(offset, length),
	}, nil
}

// Jump implements appmgr.Handoff.
func (s *Simulated) Jump(offset uintptr) {
	img, err := s.Inspect(uint32(offset))
	if err != nil {
		s.logError("simulated handoff: bad image", "offset", fmt.Sprintf("0x%08X", offset), "error", err)
	} else {
		if !img.Vector.Thumb() {
			s.logError("simulated handoff: reset vector without thumb bit", "image", img.String())
		}
		s.logInfo("simulated handoff", "image", img.String())
	}

	if s.Exit != nil {
		s.Exit(img)
	}
	select {}
}

func (s *Simulated) logInfo(msg string, kv ...any) {
	if s.Logger != nil {
		s.Logger.Info(msg, kv...)
	}
}

func (s *Simulated) logError(msg string, kv ...any) {
	if s.Logger != nil {
		s.Logger.Error(msg, kv...)
	}
}
