package roster

import "sync/atomic"

// Provider hands out the current directory snapshot. Periodic roster
// refreshes swap in a complete replacement; readers on other goroutines
// always see either the old or the new directory, never a partial one.
type Provider struct {
	p atomic.Pointer[Directory]
}

// NewProvider creates a provider seeded with an initial directory.
func NewProvider(d *Directory) *Provider {
	prov := &Provider{}
	if d != nil {
		prov.p.Store(d)
	}
	return prov
}

// Current returns the latest directory, or nil before the first Swap.
func (p *Provider) Current() *Directory {
	if p == nil {
		return nil
	}
	return p.p.Load()
}

// Swap replaces the directory wholesale.
func (p *Provider) Swap(d *Directory) {
	if p == nil || d == nil {
		return
	}
	p.p.Store(d)
}
