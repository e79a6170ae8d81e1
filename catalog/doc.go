// Package catalog describes the applications stored on removable media.
//
// # Storage Layout
//
// Applications live in one flat directory. Each application is a directory
// whose name is its location:
//
//	apps/
//	  <location>/
//	    name                  required, raw text, up to 64 bytes
//	    desc                  optional, raw text, up to 64 bytes
//	    author                optional, raw text, up to 32 bytes
//	    app.bin               required to load, not to list
//	    app.{jpg,bmp,png}     optional icon
//	    author.{jpg,bmp,png}  optional icon
//
// Icons are probed in the fixed order jpg, bmp, png; the first file that
// exists wins.
//
// # Usage
//
// Read one entry from a mounted file system:
//
//	d, err := catalog.ReadDescription(fsys, "apps", "tetris")
//	if err != nil {
//	    // directory is not a catalog entry
//	}
//	fmt.Println(d.Name, d.AppIcon)
//
// Metadata text is copied byte for byte and truncated to the field limit.
// It is never trimmed or decoded.
package catalog
