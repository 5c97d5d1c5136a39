package core

// ResolveDisplayName picks the display name for code on one side of a diff.
//
// Missing rows come from the candidate, so its names win; extra rows come
// from the reference. A code present with an empty name still wins over the
// other side.
func ResolveDisplayName(code string, side Side, reference, candidate NameMap) string {
	first, second := reference, candidate
	if side == SideMissing {
		first, second = candidate, reference
	}
	if name, ok := first[code]; ok {
		return name
	}
	if name, ok := second[code]; ok {
		return name
	}
	return ""
}
