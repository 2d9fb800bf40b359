package clients

import "strings"

// Merge is the effective write produced by merging an incoming update
// into a stored profile. When Changed is false no update should be
// issued at all; when SpouseChanged is false the nested spouse block is
// omitted from the write.
type Merge struct {
	Fields        ProfileInput
	Changed       bool
	SpouseChanged bool
}

// MergeProfile merges an incoming profile update into the stored record
// non-destructively: a blank incoming value is treated as unset, never
// as an instruction to delete the stored value. The rule applies per
// top-level field and, for the spouse block, per nested field.
func MergeProfile(stored Profile, incoming ProfileInput) Merge {
	m := Merge{}

	m.Fields.FirstName = mergeField(stored.FirstName, incoming.FirstName, &m.Changed)
	m.Fields.MiddleName = mergeField(stored.MiddleName, incoming.MiddleName, &m.Changed)
	m.Fields.LastName = mergeField(stored.LastName, incoming.LastName, &m.Changed)
	m.Fields.Address = mergeField(stored.Address, incoming.Address, &m.Changed)
	m.Fields.ContactNo = mergeField(stored.ContactNo, incoming.ContactNo, &m.Changed)
	m.Fields.Occupation = mergeField(stored.Occupation, incoming.Occupation, &m.Changed)

	m.Fields.Spouse.FirstName = mergeField(stored.Spouse.FirstName, incoming.Spouse.FirstName, &m.SpouseChanged)
	m.Fields.Spouse.LastName = mergeField(stored.Spouse.LastName, incoming.Spouse.LastName, &m.SpouseChanged)
	m.Fields.Spouse.Occupation = mergeField(stored.Spouse.Occupation, incoming.Spouse.Occupation, &m.SpouseChanged)
	m.Fields.Spouse.ContactNo = mergeField(stored.Spouse.ContactNo, incoming.Spouse.ContactNo, &m.SpouseChanged)

	if !m.SpouseChanged {
		m.Fields.Spouse = stored.Spouse
	}
	m.Changed = m.Changed || m.SpouseChanged
	return m
}

func mergeField(stored, incoming string, changed *bool) string {
	trimmed := strings.TrimSpace(incoming)
	if trimmed == "" {
		return stored
	}
	if trimmed != stored {
		*changed = true
	}
	return trimmed
}
