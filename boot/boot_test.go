package boot

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/moffa90/go-multiboot/flash"
)

func TestParseVectorTable(t *testing.T) {
	vt, err := ParseVectorTable([]byte{0x00, 0x00, 0x03, 0x20, 0x41, 0x42, 0x00, 0x00, 0xFF})
	if err != nil {
		t.Fatalf("ParseVectorTable() error = %v", err)
	}
	if vt.StackPointer != 0x20030000 || vt.Reset != 0x4241 {
		t.Errorf("got %s", vt)
	}
	if !vt.Thumb() {
		t.Error("Thumb() = false")
	}

	if _, err := ParseVectorTable([]byte{1, 2, 3}); err == nil {
		t.Error("short header should fail")
	}
}

func TestSimulatedJump(t *testing.T) {
	mem := flash.NewMemory(0x8000, flash.WithBusyPolls(0))
	page := bytes.Repeat([]byte{flash.ErasedByte}, flash.DefaultPageSize)
	copy(page, []byte{0x00, 0x00, 0x03, 0x20, 0x01, 0x41, 0x00, 0x00})
	if err := mem.EraseBlock(0x4000); err != nil {
		t.Fatal(err)
	}
	if err := mem.WritePage(0x4000, page); err != nil {
		t.Fatal(err)
	}

	done := make(chan Image, 1)
	sim := &Simulated{
		Memory: mem,
		Limit:  0x8000,
		Exit: func(img Image) {
			done <- img
			runtime.Goexit()
		},
	}

	go sim.Jump(0x4000)
	img := <-done

	if img.Offset != 0x4000 || img.Vector.StackPointer != 0x20030000 || img.Vector.Reset != 0x4101 {
		t.Errorf("image = %s", img)
	}
	if img.Fingerprint != mem.Digest(0x4000, 0x4000) {
		t.Error("fingerprint does not cover the window")
	}
}
