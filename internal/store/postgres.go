package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// defaultPageSize bounds one physical page when the caller did not cap the
// scan, standing in for the native store's page-size limit.
const defaultPageSize = 100

// PostgresStore backs the partitioned key-value contract with two jsonb
// tables. Key attributes are extracted into indexed columns; everything
// else lives in the item document. Filter expressions are evaluated
// in-process over the scanned rows, matching the native store's
// scan-then-filter semantics (Limit caps scanned rows, not matches).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetItem(ctx context.Context, table string, key PageKey) (Item, error) {
	var query string
	var arg any
	switch table {
	case TableResumen:
		query = `SELECT item FROM ordenes_pago_resumen WHERE id_resumen = $1`
		arg = key["idResumen"]
	case TableDetalles:
		query = `SELECT item FROM ordenes_pago_detalles WHERE transaction_id = $1`
		arg = key["transactionId"]
	default:
		return nil, fmt.Errorf("store: unknown table %q", table)
	}

	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get %s: %w", table, err)
	}

	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("store: decode %s item: %w", table, err)
	}
	return item, nil
}

// target describes the physical access path of one table/index pair.
type target struct {
	table        string
	partitionCol string
	sortCol      string
	tieCol       string

	partitionAttr string
	sortAttr      string
	tieAttr       string
}

func resolveTarget(spec QuerySpec) (target, error) {
	switch {
	case spec.Table == TableDetalles && spec.Index == IndexResumen:
		return target{
			table: "ordenes_pago_detalles", partitionCol: "id_resumen", sortCol: "transaction_id",
			partitionAttr: "idResumen", sortAttr: "transactionId",
		}, nil
	case spec.Table == TableDetalles && spec.Index == IndexRutMandanteFechaPago:
		return target{
			table: "ordenes_pago_detalles", partitionCol: "rut_mandante", sortCol: "fecha_pago", tieCol: "transaction_id",
			partitionAttr: "rutMandante", sortAttr: "fechaPago", tieAttr: "transactionId",
		}, nil
	case spec.Table == TableResumen && spec.Index == IndexRutFechaPago:
		return target{
			table: "ordenes_pago_resumen", partitionCol: "rut", sortCol: "fecha_pago", tieCol: "id_resumen",
			partitionAttr: "rut", sortAttr: "fechaPago", tieAttr: "idResumen",
		}, nil
	case spec.Table == TableResumen && spec.Index == "":
		return target{
			table: "ordenes_pago_resumen", partitionCol: "id_resumen", sortCol: "id_resumen",
			partitionAttr: "idResumen", sortAttr: "idResumen",
		}, nil
	default:
		return target{}, fmt.Errorf("store: no access path for table %q index %q", spec.Table, spec.Index)
	}
}

func (s *PostgresStore) Query(ctx context.Context, spec QuerySpec) (*Page, error) {
	tgt, err := resolveTarget(spec)
	if err != nil {
		return nil, err
	}

	var filter *Expr
	if spec.Filter != "" {
		filter, err = ParseExpr(spec.Filter)
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
	}

	scanLimit := spec.Limit
	if scanLimit <= 0 {
		scanLimit = defaultPageSize
	}

	query, args := buildQuery(tgt, spec, scanLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", spec.Table, err)
	}
	defer rows.Close()

	type row struct {
		sort any
		tie  any
		item Item
	}
	var scanned []row
	for rows.Next() {
		var r row
		var raw []byte
		var sortVal string
		if tgt.tieCol != "" {
			var tieVal string
			if err := rows.Scan(&sortVal, &tieVal, &raw); err != nil {
				return nil, fmt.Errorf("store: scan %s: %w", spec.Table, err)
			}
			r.tie = tieVal
		} else {
			if err := rows.Scan(&sortVal, &raw); err != nil {
				return nil, fmt.Errorf("store: scan %s: %w", spec.Table, err)
			}
		}
		r.sort = sortVal
		if err := json.Unmarshal(raw, &r.item); err != nil {
			return nil, fmt.Errorf("store: decode %s item: %w", spec.Table, err)
		}
		scanned = append(scanned, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate %s: %w", spec.Table, err)
	}

	more := len(scanned) > scanLimit
	if more {
		scanned = scanned[:scanLimit]
	}

	page := &Page{ScannedCount: len(scanned)}
	for _, r := range scanned {
		if filter != nil {
			ok, err := filter.Eval(r.item, spec.Values)
			if err != nil {
				return nil, fmt.Errorf("store: %w", err)
			}
			if !ok {
				continue
			}
		}
		page.Items = append(page.Items, r.item)
	}
	page.Count = len(page.Items)

	if more && len(scanned) > 0 {
		last := scanned[len(scanned)-1]
		key := PageKey{
			tgt.partitionAttr: spec.Key.PartitionValue,
			tgt.sortAttr:      last.sort,
		}
		if tgt.tieAttr != "" {
			key[tgt.tieAttr] = last.tie
		}
		page.LastEvaluatedKey = key
	}

	return page, nil
}

func buildQuery(tgt target, spec QuerySpec, scanLimit int) (string, []any) {
	cols := tgt.sortCol
	if tgt.tieCol != "" {
		cols += ", " + tgt.tieCol
	}

	where := []string{fmt.Sprintf("%s = $1", tgt.partitionCol)}
	args := []any{spec.Key.PartitionValue}
	n := 2

	if spec.Key.Sort != "" && spec.Key.SortFrom != nil {
		where = append(where, fmt.Sprintf("%s BETWEEN $%d AND $%d", tgt.sortCol, n, n+1))
		args = append(args, spec.Key.SortFrom, spec.Key.SortTo)
		n += 2
	}

	dir := "ASC"
	cursorOp := ">"
	if spec.Backward {
		dir = "DESC"
		cursorOp = "<"
	}

	if spec.StartKey != nil {
		if tgt.tieCol != "" {
			where = append(where, fmt.Sprintf("(%s, %s) %s ($%d, $%d)", tgt.sortCol, tgt.tieCol, cursorOp, n, n+1))
			args = append(args, spec.StartKey[tgt.sortAttr], spec.StartKey[tgt.tieAttr])
			n += 2
		} else {
			where = append(where, fmt.Sprintf("%s %s $%d", tgt.sortCol, cursorOp, n))
			args = append(args, spec.StartKey[tgt.sortAttr])
			n++
		}
	}

	order := fmt.Sprintf("%s %s", tgt.sortCol, dir)
	if tgt.tieCol != "" {
		order += fmt.Sprintf(", %s %s", tgt.tieCol, dir)
	}

	// one extra row decides whether a continuation key is returned
	query := fmt.Sprintf(
		"SELECT %s, item FROM %s WHERE %s ORDER BY %s LIMIT $%d",
		cols, tgt.table, strings.Join(where, " AND "), order, n,
	)
	args = append(args, scanLimit+1)
	return query, args
}
