package hierarchy

import (
	"maps"
	"slices"
	"testing"
)

func statTypes(dc *DisplayConfig) []Category {
	var out []Category
	for _, s := range dc.Stats {
		out = append(out, s.Type)
	}
	return out
}

func TestComputeDisplayConfig(t *testing.T) {
	h := abc(t)
	cats := Categories{CatAddedCids: {"C"}, CatNonStandard: {}}
	cfg := Config{}

	res, err := h.Resolve(cats, cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	dc, seeded := ComputeDisplayConfig(h, cats, res, cfg, nil)

	wantTypes := []Category{CatDisplayedRows, CatConcepts, CatAddedCids, CatStandard}
	if got := statTypes(dc); !slices.Equal(got, wantTypes) {
		t.Fatalf("stats = %v, want %v", got, wantTypes)
	}

	tests := []struct {
		cat                       Category
		value, displayed, hidden  int
		hasTreatment, treatment   bool
	}{
		{cat: CatDisplayedRows, value: 1, displayed: 1, hidden: 3},
		{cat: CatConcepts, value: 3, displayed: 1, hidden: 2, hasTreatment: true, treatment: false},
		{cat: CatAddedCids, value: 1, displayed: 0, hidden: 1, hasTreatment: true, treatment: true},
		{cat: CatStandard, value: 2, displayed: 1, hidden: 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			s, ok := dc.Get(tt.cat)
			if !ok {
				t.Fatalf("%s missing", tt.cat)
			}
			if s.Value != tt.value || s.DisplayedCount != tt.displayed || s.HiddenCount != tt.hidden {
				t.Errorf("value/displayed/hidden = %d/%d/%d, want %d/%d/%d",
					s.Value, s.DisplayedCount, s.HiddenCount, tt.value, tt.displayed, tt.hidden)
			}
			if s.HasTreatment != tt.hasTreatment || s.Treatment != tt.treatment {
				t.Errorf("treatment = %v/%v, want %v/%v", s.HasTreatment, s.Treatment, tt.hasTreatment, tt.treatment)
			}
		})
	}

	wantSeed := map[Category]bool{CatConcepts: false, CatAddedCids: true}
	if !maps.Equal(seeded.SpecialConceptTreatment, wantSeed) {
		t.Errorf("seeded treatments = %v, want %v", seeded.SpecialConceptTreatment, wantSeed)
	}
	if cfg.SpecialConceptTreatment != nil {
		t.Error("input config was modified")
	}
}

func TestComputeDisplayConfigFirstComputation(t *testing.T) {
	h := abc(t)
	dc, seeded := ComputeDisplayConfig(h, nil, nil, Config{}, nil)
	if _, ok := dc.Get(CatDisplayedRows); ok {
		t.Error("displayedRows reported before anything was displayed")
	}
	s, ok := dc.Get(CatConcepts)
	if !ok || s.Value != 3 || s.HiddenCount != 3 {
		t.Errorf("concepts stat = %+v", s)
	}
	if v, ok := seeded.SpecialConceptTreatment[CatConcepts]; !ok || v {
		t.Errorf("concepts treatment seeded to %v (present %v), want false", v, ok)
	}
}

func TestComputeDisplayConfigReadsBack(t *testing.T) {
	h := abc(t)
	cats := Categories{CatAddedCids: {"C"}}

	cfg := Config{SpecialConceptTreatment: map[Category]bool{CatAddedCids: false}}
	dc, out := ComputeDisplayConfig(h, cats, nil, cfg, nil)
	if s, _ := dc.Get(CatAddedCids); s.Treatment {
		t.Error("configured false treatment was overwritten by the default")
	}
	if out.SpecialConceptTreatment[CatAddedCids] {
		t.Error("returned config re-defaulted addedCids")
	}

	prev := &DisplayConfig{Stats: []CategoryStat{{Type: CatAddedCids, HasTreatment: true, Treatment: false}}}
	dc, out = ComputeDisplayConfig(h, cats, nil, Config{}, prev)
	if s, _ := dc.Get(CatAddedCids); s.Treatment {
		t.Error("seed should come from the previous display config")
	}
	if v, ok := out.SpecialConceptTreatment[CatAddedCids]; !ok || v {
		t.Errorf("seeded addedCids = %v (present %v), want false", v, ok)
	}
}

func TestComputeDisplayConfigDuplicates(t *testing.T) {
	h := abc(t)
	tests := []struct {
		name              string
		hide              bool
		displayed, hidden int
	}{
		{name: "hidden", hide: true, hidden: 1},
		{name: "shown", hide: false, displayed: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{ExpandAll: true, SpecialConceptTreatment: map[Category]bool{CatAllButFirstOccurrence: tt.hide}}
			res, err := h.Resolve(nil, cfg)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			dc, _ := ComputeDisplayConfig(h, nil, res, cfg, nil)
			s, ok := dc.Get(CatAllButFirstOccurrence)
			if !ok {
				t.Fatal("allButFirstOccurrence missing")
			}
			if s.Value != 1 || s.DisplayedCount != tt.displayed || s.HiddenCount != tt.hidden {
				t.Errorf("stat = %d/%d/%d", s.Value, s.DisplayedCount, s.HiddenCount)
			}
			if s.Treatment != tt.hide {
				t.Errorf("Treatment = %v, want %v", s.Treatment, tt.hide)
			}
		})
	}
}

func TestDeriveCategories(t *testing.T) {
	cs := []Concept{
		{ConceptID: "1", StandardConcept: "S", TotalCnt: 5},
		{ConceptID: "2", StandardConcept: "C", TotalCnt: 0},
		{ConceptID: "3", StandardConcept: "", TotalCnt: 2},
	}
	got := DeriveCategories(cs, Categories{CatAddedCids: {"1"}})
	if !slices.Equal(got[CatNonStandard], []ConceptID{"3"}) {
		t.Errorf("nonStandard = %v, want [3]", got[CatNonStandard])
	}
	if !slices.Equal(got[CatZeroRecord], []ConceptID{"2"}) {
		t.Errorf("zeroRecord = %v, want [2]", got[CatZeroRecord])
	}
	if !slices.Equal(got[CatAddedCids], []ConceptID{"1"}) {
		t.Errorf("addedCids = %v, want [1]", got[CatAddedCids])
	}

	supplied := DeriveCategories(cs, Categories{CatZeroRecord: {"9"}})
	if !slices.Equal(supplied[CatZeroRecord], []ConceptID{"9"}) {
		t.Errorf("supplied zeroRecord overwritten: %v", supplied[CatZeroRecord])
	}
}
