package models

// Status is the validation state of a candidate street name row.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// Candidate is one proposed street name + type pending validation.
// ID is stable across reorders; Order is the dense 1-based display position.
type Candidate struct {
	ID         string `json:"id"`
	StreetName string `json:"streetname"`
	StreetType string `json:"streettype"`
	Status     Status `json:"status"`
	Message    string `json:"message"`
	NameValid  bool   `json:"name_valid"`
	TypeValid  bool   `json:"type_valid"`
	Order      int    `json:"order"`
}

// Validity is the atomic output of one validation pass. It is always derived
// fresh and applied whole; fields are never patched individually.
type Validity struct {
	Status    Status `json:"status"`
	Message   string `json:"message"`
	NameValid bool   `json:"name_valid"`
	TypeValid bool   `json:"type_valid"`
}

// Apply copies a validity result onto a candidate in one step.
func (c *Candidate) Apply(v Validity) {
	c.Status = v.Status
	c.Message = v.Message
	c.NameValid = v.NameValid
	c.TypeValid = v.TypeValid
}

// SimilarStreet is the verdict of comparing a candidate against one corpus
// entry. MatchRatio is binary (1 if any phonetic word pair matched, else 0);
// the name is historical and kept for wire compatibility with consumers of
// the original verdict shape.
type SimilarStreet struct {
	StreetName         string  `json:"streetname"`
	Similar            bool    `json:"similar"`
	MatchRatio         float64 `json:"match_ratio"`
	NormalizedDistance float64 `json:"normalized_distance"`
}

// StreetRecord holds the attribute fields of an existing street returned by
// the exact-match lookup, used to build the "already exists" message.
type StreetRecord struct {
	DirPrefix    string `json:"dir_prefix"`
	Name         string `json:"st_name"`
	Type         string `json:"st_type"`
	Jurisdiction string `json:"plan_juris"`
}
