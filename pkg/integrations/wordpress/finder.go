package wordpress

import "strings"

// FindMatch picks the record whose name matches name.
//
// An exact, case-sensitive match wins, and the first such record in
// candidate order is returned. Failing that, the last record whose
// lower-cased name equals the lower-cased target is returned. Returns nil
// when nothing matches or the candidate list is empty.
func FindMatch(name string, candidates []TaxonomyRecord) *TaxonomyRecord {
	lower := strings.ToLower(name)
	var fold *TaxonomyRecord
	for i := range candidates {
		c := &candidates[i]
		if c.Name == name {
			return c
		}
		if strings.ToLower(c.Name) == lower {
			fold = c
		}
	}
	return fold
}
