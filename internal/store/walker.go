package store

import "context"

// Walker executes one logical query as a lazy, finite, non-restartable
// sequence of physical pages. NextPage returns one page and remembers the
// continuation key; Drain consumes every remaining page. A store error
// aborts the walk and discards anything already accumulated.
type Walker struct {
	q    Querier
	spec QuerySpec

	started bool
	done    bool
}

func NewWalker(q Querier, spec QuerySpec) *Walker {
	return &Walker{q: q, spec: spec}
}

// NextPage returns the next physical page, or nil once the store reports no
// further pages.
func (w *Walker) NextPage(ctx context.Context) (*Page, error) {
	if w.done {
		return nil, nil
	}
	page, err := w.q.Query(ctx, w.spec)
	if err != nil {
		w.done = true
		return nil, err
	}
	w.started = true
	if page.LastEvaluatedKey == nil {
		w.done = true
	} else {
		w.spec.StartKey = page.LastEvaluatedKey
	}
	return page, nil
}

// Drain walks every remaining page and returns all matching items plus the
// total number of rows scanned. Every matching record is yielded exactly
// once; the store's cursor semantics guarantee no gaps or overlaps across
// page boundaries.
func (w *Walker) Drain(ctx context.Context) ([]Item, int, error) {
	var items []Item
	scanned := 0
	for {
		page, err := w.NextPage(ctx)
		if err != nil {
			return nil, 0, err
		}
		if page == nil {
			return items, scanned, nil
		}
		items = append(items, page.Items...)
		scanned += page.ScannedCount
	}
}

// Aggregate is the result of a reducing drain. Sum is zero when no field
// was summed; zero matching records is a valid result, not an error.
type Aggregate struct {
	Count int
	Sum   int64
}

// Count drains the query applying a counting reducer, never materializing
// the full record set.
func Count(ctx context.Context, q Querier, spec QuerySpec) (int, error) {
	agg, err := reduce(ctx, q, spec, "")
	if err != nil {
		return 0, err
	}
	return agg.Count, nil
}

// CountSum drains the query counting records and summing the named numeric
// field of each match.
func CountSum(ctx context.Context, q Querier, spec QuerySpec, field string) (Aggregate, error) {
	return reduce(ctx, q, spec, field)
}

func reduce(ctx context.Context, q Querier, spec QuerySpec, sumField string) (Aggregate, error) {
	spec.Limit = 0 // aggregation drains full pages regardless of caller limits
	w := NewWalker(q, spec)

	var agg Aggregate
	for {
		page, err := w.NextPage(ctx)
		if err != nil {
			return Aggregate{}, err
		}
		if page == nil {
			return agg, nil
		}
		for _, item := range page.Items {
			agg.Count++
			if sumField != "" {
				if n, ok := item.Number(sumField); ok {
					agg.Sum += int64(n)
				}
			}
		}
	}
}
