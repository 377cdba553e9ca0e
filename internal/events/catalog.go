package events

// Catalog is the table of events a service produces and consumes. It is built
// once at startup and never modified afterwards.
type Catalog struct {
	produced []*Descriptor
	consumed []*Descriptor
	byName   map[string]*Descriptor
}

// NewCatalog creates a catalog from the produced and consumed descriptors.
// The slices are copied, so later changes by the caller have no effect.
func NewCatalog(produced, consumed []*Descriptor) *Catalog {
	c := &Catalog{
		produced: append([]*Descriptor(nil), produced...),
		consumed: append([]*Descriptor(nil), consumed...),
		byName:   make(map[string]*Descriptor),
	}

	for _, d := range c.entries() {
		if d == nil || d.name == "" {
			continue
		}
		if _, exists := c.byName[d.name]; !exists {
			c.byName[d.name] = d
		}
	}

	return c
}

// Produced returns the events published by this service.
func (c *Catalog) Produced() []*Descriptor {
	return append([]*Descriptor(nil), c.produced...)
}

// Consumed returns the events this service listens to.
func (c *Catalog) Consumed() []*Descriptor {
	return append([]*Descriptor(nil), c.consumed...)
}

// Get looks up a descriptor by event name.
func (c *Catalog) Get(name string) (*Descriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// All returns every distinct descriptor in the catalog, produced events first.
// Unnamed descriptors are included as they appear.
func (c *Catalog) All() []*Descriptor {
	seen := make(map[*Descriptor]bool)
	named := make(map[string]bool)

	var all []*Descriptor
	for _, d := range c.entries() {
		if d == nil || seen[d] {
			continue
		}
		seen[d] = true
		if d.name != "" {
			if named[d.name] {
				continue
			}
			named[d.name] = true
		}
		all = append(all, d)
	}
	return all
}

// IsProduced reports whether the named event is published by this service.
func (c *Catalog) IsProduced(name string) bool {
	return containsName(c.produced, name)
}

// IsConsumed reports whether the named event is consumed by this service.
func (c *Catalog) IsConsumed(name string) bool {
	return containsName(c.consumed, name)
}

// Len returns the number of entries across both lists.
func (c *Catalog) Len() int {
	return len(c.produced) + len(c.consumed)
}

// Validate checks every descriptor with a default Validator.
func (c *Catalog) Validate() error {
	return NewValidator().ValidateCatalog(c)
}

// entries returns produced followed by consumed without copying.
func (c *Catalog) entries() []*Descriptor {
	all := make([]*Descriptor, 0, len(c.produced)+len(c.consumed))
	all = append(all, c.produced...)
	return append(all, c.consumed...)
}

func containsName(list []*Descriptor, name string) bool {
	for _, d := range list {
		if d != nil && d.name == name {
			return true
		}
	}
	return false
}
