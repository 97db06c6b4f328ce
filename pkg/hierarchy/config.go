package hierarchy

import "maps"

// PathAction is an explicit expand/collapse override for one row path.
type PathAction string

const (
	Expand   PathAction = "expand"
	Collapse PathAction = "collapse"
)

// Config is the visibility configuration of one view. The host owns it and
// feeds it back unchanged on every resolution; the engine never mutates it.
type Config struct {
	ExpandAll               bool                  `json:"expandAll" yaml:"expandAll"`
	SpecialConceptTreatment map[Category]bool     `json:"specialConceptTreatment,omitempty" yaml:"specialConceptTreatment,omitempty"`
	SpecificPaths           map[string]PathAction `json:"specificPaths,omitempty" yaml:"specificPaths,omitempty"`

	// MaxRows bounds the number of rows flattening may produce; 0 means no
	// limit.
	MaxRows int `json:"maxRows,omitempty" yaml:"maxRows,omitempty"`
}

// DefaultConfig returns the configuration a new view starts from: nothing
// expanded and every category treatment at its declared default.
func DefaultConfig() Config {
	cfg := Config{SpecialConceptTreatment: make(map[Category]bool)}
	for _, d := range categoryTable {
		if d.hasDefault {
			cfg.SpecialConceptTreatment[d.cat] = d.def
		}
	}
	return cfg
}

// Treatment returns the effective treatment flag of a category: the
// configured value, else the declared default.
func (c Config) Treatment(cat Category) bool {
	if v, ok := c.SpecialConceptTreatment[cat]; ok {
		return v
	}
	on, _ := DefaultTreatment(cat)
	return on
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	out.SpecialConceptTreatment = maps.Clone(c.SpecialConceptTreatment)
	out.SpecificPaths = maps.Clone(c.SpecificPaths)
	return out
}

// ToggleExpandAll flips ExpandAll and drops all path overrides, which were
// recorded against the previous baseline.
func (c Config) ToggleExpandAll() Config {
	out := c.Clone()
	out.ExpandAll = !c.ExpandAll
	out.SpecificPaths = nil
	return out
}

// TogglePath sets the override of rowPath to action, or removes it when it is
// already set to action.
func (c Config) TogglePath(rowPath string, action PathAction) Config {
	out := c.Clone()
	if out.SpecificPaths[rowPath] == action {
		delete(out.SpecificPaths, rowPath)
		return out
	}
	if out.SpecificPaths == nil {
		out.SpecificPaths = make(map[string]PathAction)
	}
	out.SpecificPaths[rowPath] = action
	return out
}

// SetTreatment sets the treatment flag of one category.
func (c Config) SetTreatment(cat Category, on bool) Config {
	out := c.Clone()
	if out.SpecialConceptTreatment == nil {
		out.SpecialConceptTreatment = make(map[Category]bool)
	}
	out.SpecialConceptTreatment[cat] = on
	return out
}

// ConfigPatch holds the parts of a Config that differ from a base
// configuration. Only a patch needs to be persisted.
type ConfigPatch struct {
	ExpandAll               *bool                 `json:"expandAll,omitempty"`
	SpecialConceptTreatment map[Category]bool     `json:"specialConceptTreatment,omitempty"`
	SpecificPaths           map[string]PathAction `json:"specificPaths,omitempty"`
	MaxRows                 *int                  `json:"maxRows,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ConfigPatch) IsEmpty() bool {
	return p.ExpandAll == nil && p.MaxRows == nil &&
		len(p.SpecialConceptTreatment) == 0 && len(p.SpecificPaths) == 0
}

// Diff returns what differs between c and base. Entries present in base but
// absent from c are not represented.
func (c Config) Diff(base Config) ConfigPatch {
	var p ConfigPatch
	if c.ExpandAll != base.ExpandAll {
		v := c.ExpandAll
		p.ExpandAll = &v
	}
	if c.MaxRows != base.MaxRows {
		v := c.MaxRows
		p.MaxRows = &v
	}
	for k, v := range c.SpecialConceptTreatment {
		if bv, ok := base.SpecialConceptTreatment[k]; !ok || bv != v {
			if p.SpecialConceptTreatment == nil {
				p.SpecialConceptTreatment = make(map[Category]bool)
			}
			p.SpecialConceptTreatment[k] = v
		}
	}
	for k, v := range c.SpecificPaths {
		if base.SpecificPaths[k] != v {
			if p.SpecificPaths == nil {
				p.SpecificPaths = make(map[string]PathAction)
			}
			p.SpecificPaths[k] = v
		}
	}
	return p
}

// Apply overlays the patch on base.
func (p ConfigPatch) Apply(base Config) Config {
	out := base.Clone()
	if p.ExpandAll != nil {
		out.ExpandAll = *p.ExpandAll
	}
	if p.MaxRows != nil {
		out.MaxRows = *p.MaxRows
	}
	for k, v := range p.SpecialConceptTreatment {
		if out.SpecialConceptTreatment == nil {
			out.SpecialConceptTreatment = make(map[Category]bool)
		}
		out.SpecialConceptTreatment[k] = v
	}
	for k, v := range p.SpecificPaths {
		if out.SpecificPaths == nil {
			out.SpecificPaths = make(map[string]PathAction)
		}
		out.SpecificPaths[k] = v
	}
	return out
}
