// ABOUTME: Tolerant lookup helpers for cross-collection references.
// ABOUTME: A dangling reference resolves to ok=false, never an error.
package models

// Record is implemented by every stored entity.
type Record interface {
	RecordID() int64
}

// LookupByID finds the record with the given id. A miss returns the zero
// value and false.
func LookupByID[T Record](items []T, id int64) (T, bool) {
	for _, item := range items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// IndexByID builds an id map for repeated lookups.
func IndexByID[T Record](items []T) map[int64]T {
	out := make(map[int64]T, len(items))
	for _, item := range items {
		out[item.RecordID()] = item
	}
	return out
}

// ExerciseName returns the exercise's name or "Unknown Exercise" when the
// reference dangles.
func ExerciseName(exercises map[int64]Exercise, id int64) string {
	if ex, ok := exercises[id]; ok {
		return ex.Name
	}
	return "Unknown Exercise"
}
