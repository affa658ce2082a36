package core

import "slices"

// ExtendLineage returns previous ++ [eventID] as a new slice.
// The input is never modified, so lineages of sibling events cannot alias each other.
func ExtendLineage(previous []EventIDString, eventID EventIDString) []EventIDString {
	lineage := make([]EventIDString, 0, len(previous)+1)
	lineage = append(lineage, previous...)

	return append(lineage, eventID)
}

// LineageOf returns the lineage every outcome of request carries.
func LineageOf(request RequestEvent) []EventIDString {
	return ExtendLineage(request.HasPreviousEventIDs(), request.HasEventID())
}

func cloneIDs(ids []EventIDString) []EventIDString {
	if ids == nil {
		return []EventIDString{}
	}

	return slices.Clone(ids)
}
