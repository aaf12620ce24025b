package store

import (
	"context"
	"errors"
	"testing"
)

// pagedQuerier serves a fixed item list one physical page at a time,
// honoring StartKey the way the real store does.
type pagedQuerier struct {
	items    []Item
	pageSize int
	calls    int
}

func (q *pagedQuerier) Query(_ context.Context, spec QuerySpec) (*Page, error) {
	q.calls++

	start := 0
	if spec.StartKey != nil {
		n, _ := toNumber(spec.StartKey["pos"])
		start = int(n) + 1
	}

	size := q.pageSize
	if spec.Limit > 0 && spec.Limit < size {
		size = spec.Limit
	}
	end := start + size
	if end > len(q.items) {
		end = len(q.items)
	}

	page := &Page{
		Items:        q.items[start:end],
		Count:        end - start,
		ScannedCount: end - start,
	}
	if end < len(q.items) {
		page.LastEvaluatedKey = PageKey{"pos": float64(end - 1)}
	}
	return page, nil
}

func makeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{"transactionId": float64(i), "monto": float64(100)}
	}
	return items
}

func TestWalkerDrain(t *testing.T) {
	q := &pagedQuerier{items: makeItems(25), pageSize: 10}
	w := NewWalker(q, QuerySpec{Table: TableDetalles, Index: IndexResumen})

	items, scanned, err := w.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(items) != 25 || scanned != 25 {
		t.Fatalf("got %d items, %d scanned", len(items), scanned)
	}
	if q.calls != 3 {
		t.Errorf("calls = %d, want 3", q.calls)
	}
	// exactly-once: no gaps, no overlaps
	for i, item := range items {
		if id, _ := item.Number("transactionId"); int(id) != i {
			t.Fatalf("item %d has transactionId %v", i, id)
		}
	}
}

func TestWalkerNextPageCursor(t *testing.T) {
	q := &pagedQuerier{items: makeItems(5), pageSize: 10}
	w := NewWalker(q, QuerySpec{Limit: 3})

	first, err := w.NextPage(context.Background())
	if err != nil {
		t.Fatalf("NextPage: %v", err)
	}
	if first.Count != 3 || first.LastEvaluatedKey == nil {
		t.Fatalf("first page: count %d, key %v", first.Count, first.LastEvaluatedKey)
	}

	second, err := w.NextPage(context.Background())
	if err != nil {
		t.Fatalf("NextPage: %v", err)
	}
	if second.Count != 2 || second.LastEvaluatedKey != nil {
		t.Fatalf("second page: count %d, key %v", second.Count, second.LastEvaluatedKey)
	}
	if id, _ := second.Items[0].Number("transactionId"); id != 3 {
		t.Errorf("second page starts at %v", id)
	}

	third, err := w.NextPage(context.Background())
	if err != nil || third != nil {
		t.Fatalf("exhausted walker returned %v, %v", third, err)
	}
}

type failingQuerier struct{}

func (failingQuerier) Query(context.Context, QuerySpec) (*Page, error) {
	return nil, errors.New("store down")
}

func TestWalkerAbortsOnError(t *testing.T) {
	w := NewWalker(failingQuerier{}, QuerySpec{})
	if _, _, err := w.Drain(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	// a failed walker stays done
	page, err := w.NextPage(context.Background())
	if page != nil || err != nil {
		t.Fatalf("after failure: %v, %v", page, err)
	}
}

func TestCountSum(t *testing.T) {
	q := &pagedQuerier{items: makeItems(12), pageSize: 5}
	agg, err := CountSum(context.Background(), q, QuerySpec{Limit: 2}, "monto")
	if err != nil {
		t.Fatalf("CountSum: %v", err)
	}
	if agg.Count != 12 {
		t.Errorf("Count = %d", agg.Count)
	}
	if agg.Sum != 1200 {
		t.Errorf("Sum = %d", agg.Sum)
	}
	// aggregation ignores the caller page cap and drains full pages
	if q.calls != 3 {
		t.Errorf("calls = %d, want 3", q.calls)
	}
}

func TestCountEmpty(t *testing.T) {
	q := &pagedQuerier{pageSize: 5}
	n, err := Count(context.Background(), q, QuerySpec{})
	if err != nil || n != 0 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}
