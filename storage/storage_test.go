package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestWithMount(t *testing.T) {
	s := NewFS(fstest.MapFS{"apps/a/name": {Data: []byte("A")}})

	err := WithMount(s, func(fsys fs.FS) error {
		if !s.Mounted() {
			t.Error("storage should be mounted inside fn")
		}
		_, err := fs.ReadFile(fsys, "apps/a/name")
		return err
	})
	if err != nil {
		t.Fatalf("WithMount() error = %v", err)
	}
	if s.Mounted() || s.Mounts() != 1 || s.Unmounts() != 1 {
		t.Errorf("mounted=%v mounts=%d unmounts=%d", s.Mounted(), s.Mounts(), s.Unmounts())
	}
}

func TestWithMountReleasesOnError(t *testing.T) {
	s := NewFS(fstest.MapFS{})
	want := errors.New("boom")

	err := WithMount(s, func(fs.FS) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("WithMount() error = %v, want %v", err, want)
	}
	if s.Mounted() {
		t.Error("storage left mounted after error")
	}
}

func TestWithMountReleasesOnPanic(t *testing.T) {
	s := NewFS(fstest.MapFS{})

	func() {
		defer func() { _ = recover() }()
		_ = WithMount(s, func(fs.FS) error { panic("boom") })
	}()

	if s.Mounted() {
		t.Error("storage left mounted after panic")
	}
}

func TestWithMountNotPresent(t *testing.T) {
	s := NewFS(fstest.MapFS{})
	s.SetPresent(false)

	called := false
	err := WithMount(s, func(fs.FS) error { called = true; return nil })
	if !IsMountError(err) || !errors.Is(err, ErrNotPresent) {
		t.Errorf("WithMount() error = %v, want mount error wrapping ErrNotPresent", err)
	}
	if called {
		t.Error("fn called without a mount")
	}
}

func TestFSRejectsNestedMount(t *testing.T) {
	s := NewFS(fstest.MapFS{})

	err := WithMount(s, func(fs.FS) error {
		return WithMount(s, func(fs.FS) error { return nil })
	})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("nested WithMount() error = %v, want ErrBusy", err)
	}
	if s.Mounted() {
		t.Error("storage left mounted")
	}
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hello"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewDir(root)
	err := WithMount(d, func(fsys fs.FS) error {
		data, err := fs.ReadFile(fsys, "hello")
		if err == nil && string(data) != "hi" {
			t.Errorf("read %q", data)
		}
		return err
	})
	if err != nil {
		t.Fatalf("WithMount() error = %v", err)
	}

	if err := d.Unmount(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Unmount() error = %v, want ErrNotMounted", err)
	}
}

func TestDirMissing(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "ejected"))
	err := WithMount(d, func(fs.FS) error { return nil })
	if !errors.Is(err, ErrNotPresent) {
		t.Errorf("WithMount() error = %v, want ErrNotPresent", err)
	}
}
