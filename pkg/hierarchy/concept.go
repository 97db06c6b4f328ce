package hierarchy

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// ConceptID is the canonical string key of a concept. Vocabulary exports
// write ids as JSON numbers or strings interchangeably; both decode to the
// same ConceptID, so 4154309 and "4154309" refer to one concept.
type ConceptID string

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *ConceptID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("concept id must not be null")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ConceptID(s)
		return nil
	}
	if c := data[0]; c != '-' && (c < '0' || c > '9') {
		return fmt.Errorf("concept id must be a string or number, got %s", data)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("concept id %s: %w", data, err)
	}
	if i, err := n.Int64(); err == nil {
		*id = ConceptID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ConceptID(n.String())
	return nil
}

// Count is a non-negative usage statistic. Some exports encode counts as
// strings ("0") or null; both are accepted.
type Count int64

// UnmarshalJSON accepts a JSON number, a numeric string, or null (zero).
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*c = 0
			return nil
		}
		data = []byte(s)
	}
	if i, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		if i < 0 {
			return fmt.Errorf("count %s must not be negative", data)
		}
		*c = Count(i)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("count %q: %w", data, err)
	}
	switch {
	case f < 0:
		return fmt.Errorf("count %s must not be negative", data)
	case f != math.Trunc(f):
		return fmt.Errorf("count %s is not a whole number", data)
	case f >= math.MaxInt64:
		return fmt.Errorf("count %s overflows int64", data)
	}
	*c = Count(f)
	return nil
}

// Concept is an immutable vocabulary entry supplied by the caller.
type Concept struct {
	ConceptID         ConceptID `json:"concept_id"`
	ConceptName       string    `json:"concept_name"`
	DomainID          string    `json:"domain_id,omitempty"`
	VocabularyID      string    `json:"vocabulary_id,omitempty"`
	ConceptClassID    string    `json:"concept_class_id,omitempty"`
	StandardConcept   string    `json:"standard_concept,omitempty"`
	TotalCnt          Count     `json:"total_cnt"`
	DistinctPersonCnt Count     `json:"distinct_person_cnt"`
}

// IsStandard reports whether the concept is a standard ("S") concept.
func (c Concept) IsStandard() bool { return c.StandardConcept == "S" }

// IsClassification reports whether the concept is a classification ("C")
// concept.
func (c Concept) IsClassification() bool { return c.StandardConcept == "C" }

// Edge is a parent→child pair. On the wire it is a two-element array
// [parent, child].
type Edge [2]ConceptID

// Parent returns the source of the edge.
func (e Edge) Parent() ConceptID { return e[0] }

// Child returns the target of the edge.
func (e Edge) Child() ConceptID { return e[1] }
