package repository

import (
	"context"

	"ordenes-pago-api/internal/store"
)

type DetalleRepository struct {
	st store.Store
}

func NewDetalleRepository(st store.Store) *DetalleRepository {
	return &DetalleRepository{st: st}
}

func specPorResumen(idResumen string) store.QuerySpec {
	return store.QuerySpec{
		Table: store.TableDetalles,
		Index: store.IndexResumen,
		Key:   store.KeyCondition{Partition: "idResumen", PartitionValue: idResumen},
	}
}

// Pagina returns one physical page of a batch's details. A non-empty next
// resumes after the detail with that transaction id.
func (r *DetalleRepository) Pagina(ctx context.Context, idResumen string, limit int, next string) (*store.Page, error) {
	spec := specPorResumen(idResumen)
	spec.Limit = limit
	if next != "" {
		spec.StartKey = store.PageKey{"idResumen": idResumen, "transactionId": next}
	}
	return r.st.Query(ctx, spec)
}

// PaginaMandante is Pagina narrowed to details issued by one mandante.
// The rut filter applies after the scan, so a page may match fewer rows
// than it scanned.
func (r *DetalleRepository) PaginaMandante(ctx context.Context, idResumen string, rutMandante int64, limit int, next string) (*store.Page, error) {
	spec := specPorResumen(idResumen)
	spec.Limit = limit
	spec.Filter = "rutMandante = :rutMandante"
	spec.Values = map[string]any{":rutMandante": rutMandante}
	if next != "" {
		spec.StartKey = store.PageKey{"idResumen": idResumen, "transactionId": next}
	}
	return r.st.Query(ctx, spec)
}

// Filtrados drains every detail of a batch matching a compiled filter,
// returning the matches plus the total rows scanned.
func (r *DetalleRepository) Filtrados(ctx context.Context, idResumen string, filtro *store.CompiledFilter) ([]store.Item, int, error) {
	spec := specPorResumen(idResumen)
	spec.Filter = filtro.Expression
	spec.Values = filtro.Values
	return store.NewWalker(r.st, spec).Drain(ctx)
}

// Contar counts every detail of a batch, independent of any page limit.
func (r *DetalleRepository) Contar(ctx context.Context, idResumen string) (int, error) {
	return store.Count(ctx, r.st, specPorResumen(idResumen))
}

// ContarYSumar counts one mandante's details in a batch and sums their
// amounts in the same pass.
func (r *DetalleRepository) ContarYSumar(ctx context.Context, idResumen string, rutMandante int64) (store.Aggregate, error) {
	spec := specPorResumen(idResumen)
	spec.Filter = "rutMandante = :rutMandante"
	spec.Values = map[string]any{":rutMandante": rutMandante}
	return store.CountSum(ctx, r.st, spec, "monto")
}

// ResumenIDsPorMandante walks the mandante index over one calendar month,
// newest first, and returns the referenced batch ids deduplicated in
// first-seen order.
func (r *DetalleRepository) ResumenIDsPorMandante(ctx context.Context, rutMandante int64, anio, mes int) ([]string, error) {
	desde, hasta := rangoMes(anio, mes)

	w := store.NewWalker(r.st, store.QuerySpec{
		Table: store.TableDetalles,
		Index: store.IndexRutMandanteFechaPago,
		Key: store.KeyCondition{
			Partition: "rutMandante", PartitionValue: rutMandante,
			Sort: "fechaPago", SortFrom: desde, SortTo: hasta,
		},
		Backward: true,
	})

	items, _, err := w.Drain(ctx)
	if err != nil {
		return nil, err
	}

	vistos := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id := item.String("idResumen")
		if id == "" {
			continue
		}
		if _, ok := vistos[id]; ok {
			continue
		}
		vistos[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
