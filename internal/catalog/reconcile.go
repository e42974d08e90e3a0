package catalog

// Assigned pairs an upstream record with the local id reconciled for it.
type Assigned[S any] struct {
	Source  S
	LocalID *int64
}

// Reconcile assigns local ids to records positionally, using the id sequence
// the association resolves to. The result has the same length and order as
// records; records past the end of the sequence get no id. Only positive
// integers count as ids: an entry of 0 or below leaves its record without one.
func Reconcile[S any](records []S, assoc Association) []Assigned[S] {
	ids := assoc.LocalIDs()
	out := make([]Assigned[S], len(records))
	for i, rec := range records {
		out[i].Source = rec
		if i < len(ids) {
			out[i].LocalID = ids[i]
		}
	}
	return out
}
