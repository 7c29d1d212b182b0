package fields

// Mapping binds one source column to one canonical field with a confidence
// score. At most one mapping exists per source column and per field.
type Mapping struct {
	SourceColumnIndex int       `json:"source_column_index"`
	SourceColumnName  string    `json:"source_column_name"`
	Field             Field     `json:"field"`
	Confidence        float64   `json:"confidence"`
	MatchType         MatchType `json:"match_type"`
}

// ConfidenceFloor is the minimum confidence for a mapping to be applied
// automatically. Sub-floor mappings are surfaced as suggestions only.
const ConfidenceFloor = 0.5

// Applied reports whether the mapping clears the auto-apply floor
func (m Mapping) Applied() bool {
	return m.Confidence >= ConfidenceFloor
}

// MappingSet indexes applied mappings by field and by column
type MappingSet struct {
	byField  map[Field]Mapping
	byColumn map[int]Mapping
}

// NewMappingSet indexes the applied subset of the given mappings
func NewMappingSet(mappings []Mapping) MappingSet {
	s := MappingSet{byField: map[Field]Mapping{}, byColumn: map[int]Mapping{}}
	for _, m := range mappings {
		if m.Applied() {
			s.byField[m.Field] = m
			s.byColumn[m.SourceColumnIndex] = m
		}
	}
	return s
}

// ByField returns the applied mapping for a canonical field
func (s MappingSet) ByField(f Field) (Mapping, bool) {
	m, ok := s.byField[f]
	return m, ok
}

// ByColumn returns the applied mapping for a source column index
func (s MappingSet) ByColumn(i int) (Mapping, bool) {
	m, ok := s.byColumn[i]
	return m, ok
}

// Has reports whether the field received an applied mapping
func (s MappingSet) Has(f Field) bool {
	_, ok := s.byField[f]
	return ok
}
