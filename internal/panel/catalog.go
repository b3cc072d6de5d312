package panel

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// Catalog holds the templates the manager may instantiate.
type Catalog struct {
	templates map[string]*Template
}

// NewCatalog registers the given templates. Duplicate or empty ids are
// configuration errors.
func NewCatalog(ts ...Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]*Template, len(ts))}
	for _, t := range ts {
		if err := c.Register(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds t to the catalog.
func (c *Catalog) Register(t Template) error {
	if t.ID == "" {
		return fmt.Errorf("register template: empty id")
	}
	if _, ok := c.templates[t.ID]; ok {
		return fmt.Errorf("register template %q: duplicate id", t.ID)
	}
	c.templates[t.ID] = &t
	return nil
}

// Lookup resolves id. Unknown ids wrap ErrUnknownTemplate and name the
// closest registered id when one is near enough to be a typo.
func (c *Catalog) Lookup(id string) (*Template, error) {
	if t, ok := c.templates[id]; ok {
		return t, nil
	}
	if s := c.suggest(id); s != "" {
		return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownTemplate, id, s)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
}

// IDs returns the registered ids in sorted order.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.templates))
	for id := range c.templates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Len() int { return len(c.templates) }

func (c *Catalog) suggest(id string) string {
	best, bestDist := "", -1
	for _, known := range c.IDs() {
		d := levenshtein.ComputeDistance(normalize(id), normalize(known))
		if bestDist < 0 || d < bestDist {
			best, bestDist = known, d
		}
	}
	// Allow roughly one edit per three characters.
	if bestDist < 0 || bestDist > max(1, len(id)/3) {
		return ""
	}
	return best
}
