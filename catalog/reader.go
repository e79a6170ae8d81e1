package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
)

// Metadata file names inside an application directory.
const (
	NameFile        = "name"
	DescriptionFile = "desc"
	AuthorFile      = "author"
	BinaryFile      = "app.bin"
)

// ErrNoName is returned when an application directory has no usable name
// file. Such directories are not catalog entries.
var ErrNoName = errors.New("catalog: missing or empty name")

// ReadDescription builds the Description for the directory root/location
// in fsys.
//
// The name file is required; a missing, unreadable or empty name yields
// ErrNoName. The desc and author files are optional and read as empty on
// any failure.
//
// Example:
//
//	d, err := catalog.ReadDescription(fsys, "apps", "snake")
func ReadDescription(fsys fs.FS, root, location string) (Description, error) {
	dir := path.Join(root, location)

	name, err := ReadMetadata(fsys, path.Join(dir, NameFile), MaxNameLength)
	if err != nil {
		return Description{}, fmt.Errorf("%w: %s: %v", ErrNoName, dir, err)
	}
	if name == "" {
		return Description{}, fmt.Errorf("%w: %s", ErrNoName, dir)
	}

	desc, _ := ReadMetadata(fsys, path.Join(dir, DescriptionFile), MaxDescriptionLength)
	author, _ := ReadMetadata(fsys, path.Join(dir, AuthorFile), MaxAuthorNameLength)

	return Description{
		Location:    truncate(location, MaxLocationLength),
		Name:        name,
		Description: desc,
		AuthorName:  author,
		AuthorIcon:  ProbeIcon(fsys, dir, AuthorIcon.BaseName()),
		AppIcon:     ProbeIcon(fsys, dir, AppIcon.BaseName()),
	}, nil
}

// HasName reports whether root/location carries a non-empty name file,
// i.e. whether it counts as a catalog entry.
func HasName(fsys fs.FS, root, location string) bool {
	name, err := ReadMetadata(fsys, path.Join(root, location, NameFile), 1)
	return err == nil && name != ""
}

// ReadMetadata reads the file at name, keeping at most limit bytes.
func ReadMetadata(fsys fs.FS, name string, limit int) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	buf, err := io.ReadAll(io.LimitReader(f, int64(limit)))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(buf), nil
}

// ProbeIcon returns the format of the first existing dir/base.<ext> in
// the order jpg, bmp, png, or IconNone.
func ProbeIcon(fsys fs.FS, dir, base string) IconFormat {
	for _, format := range iconProbeOrder {
		if _, err := fs.Stat(fsys, path.Join(dir, base+format.Extension())); err == nil {
			return format
		}
	}
	return IconNone
}

// IconPath returns the path of the requested icon relative to the file
// system root, or false if the entry has no such icon.
func IconPath(root string, d Description, kind IconKind) (string, bool) {
	format := d.Icon(kind)
	if format == IconNone {
		return "", false
	}
	return path.Join(root, d.Location, kind.BaseName()+format.Extension()), true
}

// BinaryPath returns the path of the entry's app.bin.
func BinaryPath(root string, d Description) string {
	return path.Join(root, d.Location, BinaryFile)
}
