package termui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ProgressBar renders a fixed-width text progress bar.
type ProgressBar struct {
	width int
}

func NewProgressBar(width int) *ProgressBar {
	if width < 1 {
		width = 1
	}
	return &ProgressBar{width: width}
}

// Percent returns written/total as a percentage, 0 when total is unknown.
func Percent(written, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(written) * 100.0 / float64(total)
	if p > 100 {
		p = 100
	}
	return p
}

// Render draws the bar at percentage (0-100).
func (pb *ProgressBar) Render(percentage float64) string {
	filled := int(float64(pb.width) * percentage / 100.0)
	if filled > pb.width {
		filled = pb.width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.width-filled)
	return fmt.Sprintf("[%s] %5.1f%%", bar, percentage)
}

// RenderBytes draws the bar followed by the byte counts.
func (pb *ProgressBar) RenderBytes(written, total int) string {
	return fmt.Sprintf("%s %s / %s",
		pb.Render(Percent(written, total)),
		humanize.IBytes(uint64(written)),
		humanize.IBytes(uint64(total)),
	)
}
