package catalog

// DefaultPageCapacity is the number of entries shown on one screen.
const DefaultPageCapacity = 10

// Page is a fixed-capacity window into the catalog. Entries [0, Len())
// are valid; the remaining slots hold stale data from earlier fills.
type Page struct {
	entries []Description
	n       int
}

// NewPage returns an empty page holding up to capacity entries.
// Capacity values below one are raised to one.
func NewPage(capacity int) *Page {
	if capacity < 1 {
		capacity = 1
	}
	return &Page{entries: make([]Description, capacity)}
}

// Cap returns the page capacity.
func (p *Page) Cap() int { return len(p.entries) }

// Len returns the number of valid entries.
func (p *Page) Len() int { return p.n }

// Full reports whether every slot is valid.
func (p *Page) Full() bool { return p.n == len(p.entries) }

// Reset marks all slots stale without clearing them.
func (p *Page) Reset() { p.n = 0 }

// Set stores d at slot and makes [0, slot] valid. It reports false if slot
// is outside the page.
func (p *Page) Set(slot int, d Description) bool {
	if slot < 0 || slot >= len(p.entries) {
		return false
	}
	p.entries[slot] = d
	p.n = slot + 1
	return true
}

// At returns the entry at i. The second result is false when i is not a
// valid entry.
func (p *Page) At(i int) (Description, bool) {
	if i < 0 || i >= p.n {
		return Description{}, false
	}
	return p.entries[i], true
}

// Entries returns the valid entries. The slice aliases the page.
func (p *Page) Entries() []Description { return p.entries[:p.n] }

// Names returns the display names of the valid entries.
func (p *Page) Names() []string {
	names := make([]string, p.n)
	for i := range names {
		names[i] = p.entries[i].Name
	}
	return names
}
