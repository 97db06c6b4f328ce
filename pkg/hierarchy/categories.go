package hierarchy

import "maps"

// Category names a special-concept set. Membership lists are supplied by the
// caller, except allButFirstOccurrence, which [Hierarchy.Resolve] produces.
type Category string

const (
	CatDisplayedRows         Category = "displayedRows"
	CatConcepts              Category = "concepts"
	CatAddedCids             Category = "addedCids"
	CatDefinitionConcepts    Category = "definitionConcepts"
	CatExpansionConcepts     Category = "expansionConcepts"
	CatAdded                 Category = "added"
	CatRemoved               Category = "removed"
	CatStandard              Category = "standard"
	CatClassification        Category = "classification"
	CatNonStandard           Category = "nonStandard"
	CatZeroRecord            Category = "zeroRecord"
	CatAllButFirstOccurrence Category = "allButFirstOccurrence"
)

// Rule is the visibility treatment a category is designed for.
type Rule string

const (
	RuleNone                Rule = ""
	RuleExpandAll           Rule = "expandAll"
	RuleShowThoughCollapsed Rule = "show though collapsed"
	RuleHideThoughExpanded  Rule = "hide though expanded"
)

type categoryDef struct {
	cat        Category
	name       string
	rule       Rule
	hasDefault bool
	def        bool
}

// categoryTable is in display order.
var categoryTable = []categoryDef{
	{cat: CatDisplayedRows, name: "Visible rows"},
	{cat: CatConcepts, name: "Concepts", rule: RuleExpandAll, hasDefault: true},
	{cat: CatAddedCids, name: "Individually added concept_ids", rule: RuleShowThoughCollapsed, hasDefault: true, def: true},
	{cat: CatDefinitionConcepts, name: "Definition concepts", rule: RuleShowThoughCollapsed, hasDefault: true},
	{cat: CatExpansionConcepts, name: "Expansion only concepts", rule: RuleHideThoughExpanded, hasDefault: true},
	{cat: CatAdded, name: "Added to compared", rule: RuleShowThoughCollapsed, hasDefault: true},
	{cat: CatRemoved, name: "Removed from compared", rule: RuleShowThoughCollapsed, hasDefault: true},
	{cat: CatStandard, name: "Standard concepts"},
	{cat: CatClassification, name: "Classification concepts"},
	{cat: CatNonStandard, name: "Non-standard", rule: RuleHideThoughExpanded, hasDefault: true},
	{cat: CatZeroRecord, name: "Zero records / patients", rule: RuleHideThoughExpanded, hasDefault: true},
	{cat: CatAllButFirstOccurrence, name: "All but first occurrence", rule: RuleHideThoughExpanded, hasDefault: true, def: true},
}

func lookupCategory(c Category) (categoryDef, bool) {
	for _, d := range categoryTable {
		if d.cat == c {
			return d, true
		}
	}
	return categoryDef{}, false
}

// DefaultTreatment returns the declared default treatment flag of a category
// and whether the category has one.
func DefaultTreatment(c Category) (on, ok bool) {
	d, found := lookupCategory(c)
	if !found || !d.hasDefault {
		return false, false
	}
	return d.def, true
}

// Categories maps a category to its member concept ids.
type Categories map[Category][]ConceptID

// Clone returns a copy whose member slices are independent of c.
func (c Categories) Clone() Categories {
	out := make(Categories, len(c))
	for k, v := range c {
		out[k] = append([]ConceptID(nil), v...)
	}
	return out
}

// DeriveCategories returns a copy of cats with nonStandard (standard_concept
// neither "S" nor "C") and zeroRecord (total_cnt of zero) filled in from the
// concepts when the caller did not supply them.
func DeriveCategories(concepts []Concept, cats Categories) Categories {
	out := maps.Clone(cats)
	if out == nil {
		out = Categories{}
	}
	_, haveNonStd := out[CatNonStandard]
	_, haveZero := out[CatZeroRecord]
	var nonStd, zero []ConceptID
	for _, c := range concepts {
		if !haveNonStd && !c.IsStandard() && !c.IsClassification() {
			nonStd = append(nonStd, c.ConceptID)
		}
		if !haveZero && c.TotalCnt == 0 {
			zero = append(zero, c.ConceptID)
		}
	}
	if !haveNonStd {
		out[CatNonStandard] = nonStd
	}
	if !haveZero {
		out[CatZeroRecord] = zero
	}
	return out
}
