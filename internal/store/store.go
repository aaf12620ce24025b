package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Logical tables and secondary indexes of the payment-order ledger. The
// physical layout is fixed: detalles reference resumenes via idResumen, and
// two extra indexes cover the payer-scoped access paths.
const (
	TableResumen  = "ordenes-pago-resumen"
	TableDetalles = "ordenes-pago-detalles"

	// detalles partitioned by idResumen, sorted by transactionId
	IndexResumen = "ordenes-pago-resumen-idx"
	// resumen partitioned by rut, sorted by fechaPago
	IndexRutFechaPago = "ordenes-pago-rut-fechaPago-idx"
	// detalles partitioned by rutMandante, sorted by fechaPago
	IndexRutMandanteFechaPago = "ordenes-pago-rutMandante-fechaPago-idx"
)

var ErrNotFound = errors.New("item not found")

// Item is one stored record in document form. Attribute values follow JSON
// decoding conventions (float64 numbers, string, bool, nested maps).
type Item map[string]any

// PageKey is the store's native continuation key: the attribute values that
// identify the last scanned row of a page.
type PageKey map[string]any

// Page is the result of one physical query call. Count is the number of
// items that passed the filter; ScannedCount the number of rows examined.
// LastEvaluatedKey is set when the partition has rows beyond this page.
type Page struct {
	Items            []Item
	Count            int
	ScannedCount     int
	LastEvaluatedKey PageKey
}

// KeyCondition scopes a query to one partition, optionally bounded on the
// index's sort attribute (inclusive range).
type KeyCondition struct {
	Partition      string
	PartitionValue any
	Sort           string
	SortFrom       any
	SortTo         any
}

// QuerySpec describes a single partitioned query. Filter, when present, is a
// compiled filter expression evaluated against each scanned item with the
// bound Values. Limit caps the rows scanned by one call (not the rows
// matched); zero means the store's default page size. A cursor is only valid
// for the exact spec that produced it.
type QuerySpec struct {
	Table    string
	Index    string
	Key      KeyCondition
	Filter   string
	Values   map[string]any
	Limit    int
	StartKey PageKey
	Backward bool
}

type Querier interface {
	Query(ctx context.Context, spec QuerySpec) (*Page, error)
}

type Getter interface {
	GetItem(ctx context.Context, table string, key PageKey) (Item, error)
}

type Store interface {
	Querier
	Getter
}

// Decode round-trips an item through JSON into a typed struct.
func Decode(item Item, dst any) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// String returns a string attribute, or "" when absent or of another type.
func (it Item) String(name string) string {
	s, _ := it[name].(string)
	return s
}

// Number returns a numeric attribute coerced to float64.
func (it Item) Number(name string) (float64, bool) {
	return toNumber(it[name])
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
