package core

import "slices"

// Diff compares a candidate (SSD) mapping against the reference (ALS).
//
// MissingInTarget lists, per candidate folder, the forms the reference
// lacks; ExtraInTarget lists, per reference folder, the forms the candidate
// lacks. Each direction is driven by its own side so a folder absent from one
// map never produces an empty entry. Forms are sorted ascending.
func Diff(reference, candidate FolderFormMap) DiffResult {
	return DiffResult{
		MissingInTarget: subtract(candidate, reference),
		ExtraInTarget:   subtract(reference, candidate),
	}
}

// subtract returns, per folder of driver, the forms not present in other.
func subtract(driver, other FolderFormMap) FolderFormMap {
	out := NewFolderFormMap()
	for _, folder := range driver.Folders() {
		var only []string
		for _, form := range driver.Forms(folder) {
			if !other.Has(folder, form) {
				only = append(only, form)
			}
		}
		if len(only) == 0 {
			continue
		}
		slices.Sort(only)
		for _, form := range only {
			out.Add(folder, form)
		}
	}
	return out
}
