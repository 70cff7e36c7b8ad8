package domain

// Page is the canonical paginated result every list operation returns.
//
// HasMore is derived: with a known Total it is Offset+len(Items) < Total,
// otherwise a full page (len(Items) == Limit) is taken to mean more may exist.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   *int `json:"total,omitempty"`
	HasMore bool `json:"hasMore"`
}

// NormalizePage maps a backend list body into a Page. Callers never branch on
// whether the backend sent a bare array or an {items,total} envelope.
func NormalizePage[D, M any](body ListBody[D], limit, offset int, mapFn func(D) M) Page[M] {
	items := make([]M, 0, len(body.Items))
	for _, d := range body.Items {
		items = append(items, mapFn(d))
	}

	var hasMore bool
	if body.Total != nil {
		hasMore = offset+len(items) < *body.Total
	} else {
		hasMore = len(items) == limit
	}

	return Page[M]{
		Items:   items,
		Limit:   limit,
		Offset:  offset,
		Total:   body.Total,
		HasMore: hasMore,
	}
}

// EmptyPage is what list consumers fall back to when a call fails.
func EmptyPage[T any](limit, offset int) Page[T] {
	return Page[T]{Items: []T{}, Limit: limit, Offset: offset}
}
