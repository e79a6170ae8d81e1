package catalog

// Field limits in bytes.
const (
	MaxLocationLength    = 64
	MaxNameLength        = 64
	MaxDescriptionLength = 64
	MaxAuthorNameLength  = 32
)

// IconFormat identifies the image format of an optional icon file.
type IconFormat uint8

const (
	IconNone IconFormat = iota
	IconBmp
	IconPng
	IconJpg
)

// iconProbeOrder is the priority in which icon extensions are tried.
var iconProbeOrder = [...]IconFormat{IconJpg, IconBmp, IconPng}

// Extension returns the file extension for the format including the dot,
// or an empty string for IconNone.
func (f IconFormat) Extension() string {
	switch f {
	case IconJpg:
		return ".jpg"
	case IconBmp:
		return ".bmp"
	case IconPng:
		return ".png"
	default:
		return ""
	}
}

func (f IconFormat) String() string {
	switch f {
	case IconNone:
		return "none"
	case IconBmp:
		return "bmp"
	case IconPng:
		return "png"
	case IconJpg:
		return "jpg"
	default:
		return "unknown"
	}
}

// IconKind selects which of an application's icons is meant.
type IconKind uint8

const (
	AppIcon IconKind = iota
	AuthorIcon
)

// BaseName returns the icon file name without extension.
func (k IconKind) BaseName() string {
	if k == AuthorIcon {
		return "author"
	}
	return "app"
}

// Description is one catalog entry. It is built by ReadDescription and
// treated as immutable afterwards.
type Description struct {
	// Location is the entry's directory name under the apps root
	Location string

	// Name is the display name (required)
	Name string

	// Description is a short free-form text, empty if absent
	Description string

	// AuthorName is empty if absent
	AuthorName string

	AuthorIcon IconFormat
	AppIcon    IconFormat
}

// Icon returns the format of the requested icon.
func (d Description) Icon(kind IconKind) IconFormat {
	if kind == AuthorIcon {
		return d.AuthorIcon
	}
	return d.AppIcon
}

// truncate cuts s to at most n bytes without reinterpreting it.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
