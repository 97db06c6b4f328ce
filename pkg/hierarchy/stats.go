package hierarchy

// CategoryStat summarizes one category for an options panel.
type CategoryStat struct {
	Type         Category `json:"type"`
	Name         string   `json:"name"`
	DisplayOrder int      `json:"displayOrder"`

	// Value is the size of the category.
	Value          int `json:"value"`
	DisplayedCount int `json:"displayedConceptCnt"`
	HiddenCount    int `json:"hiddenConceptCnt"`

	Rule             Rule `json:"specialTreatmentRule,omitempty"`
	HasTreatment     bool `json:"hasTreatment"`
	TreatmentDefault bool `json:"specialTreatmentDefault"`
	Treatment        bool `json:"specialTreatment"`
}

// DisplayConfig is the per-category statistics list in display order.
type DisplayConfig struct {
	Stats []CategoryStat `json:"stats"`
}

// Get returns the statistics of one category.
func (d *DisplayConfig) Get(cat Category) (CategoryStat, bool) {
	if d == nil {
		return CategoryStat{}, false
	}
	for _, s := range d.Stats {
		if s.Type == cat {
			return s, true
		}
	}
	return CategoryStat{}, false
}

// ComputeDisplayConfig computes, for every category, its size and how many of
// its members are currently visible or hidden. Categories of size zero are
// omitted.
//
// res is the latest resolution, or nil before anything has been displayed.
// The returned Config is cfg with a treatment flag seeded for every reported
// category that lacks one: from prev when prev carried the category, else
// from the declared default. Flags already present in cfg are read back, not
// overwritten. cfg itself is not modified.
func ComputeDisplayConfig(h *Hierarchy, cats Categories, res *Resolution, cfg Config, prev *DisplayConfig) (*DisplayConfig, Config) {
	out := cfg.Clone()

	visible := map[ConceptID]struct{}{}
	var visibleRows, dupCount int
	if res != nil {
		visible = res.VisibleIDs()
		visibleRows = len(res.Rows)
		dupCount = len(res.AllButFirstOccurrence)
	}

	conceptIDs, ok := cats[CatConcepts]
	if !ok {
		conceptIDs = h.conceptIDs(nil)
	}
	members := map[Category][]ConceptID{
		CatConcepts:       conceptIDs,
		CatStandard:       h.conceptIDs(Concept.IsStandard),
		CatClassification: h.conceptIDs(Concept.IsClassification),
	}
	for _, c := range []Category{CatAddedCids, CatDefinitionConcepts, CatExpansionConcepts,
		CatAdded, CatRemoved, CatNonStandard, CatZeroRecord} {
		members[c] = cats[c]
	}

	dc := &DisplayConfig{}
	for order, def := range categoryTable {
		stat := CategoryStat{
			Type:             def.cat,
			Name:             def.name,
			DisplayOrder:     order,
			Rule:             def.rule,
			HasTreatment:     def.hasDefault,
			TreatmentDefault: def.def,
		}

		switch def.cat {
		case CatDisplayedRows:
			stat.Value = visibleRows
			stat.DisplayedCount = visibleRows
			if res != nil {
				stat.HiddenCount = len(res.AllRows) - visibleRows
			}
		case CatAllButFirstOccurrence:
			stat.Value = dupCount
			if out.Treatment(CatAllButFirstOccurrence) {
				stat.HiddenCount = dupCount
			} else {
				stat.DisplayedCount = dupCount
			}
		default:
			ids := dedupIDs(members[def.cat])
			stat.Value = len(ids)
			for _, id := range ids {
				if _, ok := visible[id]; ok {
					stat.DisplayedCount++
				} else {
					stat.HiddenCount++
				}
			}
		}

		if stat.Value == 0 {
			continue
		}

		if def.hasDefault {
			seed := def.def
			if p, ok := prev.Get(def.cat); ok && p.HasTreatment {
				seed = p.Treatment
			}
			if v, ok := out.SpecialConceptTreatment[def.cat]; ok {
				stat.Treatment = v
			} else {
				if out.SpecialConceptTreatment == nil {
					out.SpecialConceptTreatment = make(map[Category]bool)
				}
				out.SpecialConceptTreatment[def.cat] = seed
				stat.Treatment = seed
			}
		}
		dc.Stats = append(dc.Stats, stat)
	}
	return dc, out
}

// conceptIDs returns the real concepts (not the unlinked node) matching keep,
// in input order. A nil keep matches all.
func (h *Hierarchy) conceptIDs(keep func(Concept) bool) []ConceptID {
	var ids []ConceptID
	for _, id := range h.order {
		n := h.nodes[id]
		if n.NotAConcept {
			continue
		}
		if keep == nil || keep(n.Concept) {
			ids = append(ids, id)
		}
	}
	return ids
}

func dedupIDs(ids []ConceptID) []ConceptID {
	seen := make(map[ConceptID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
