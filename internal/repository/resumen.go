package repository

import (
	"context"
	"fmt"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/store"
)

// rangoMes is the inclusive fechaPago window of one calendar month. The
// upper bound uses day 31 for every month; dates are compared as strings,
// so the bound only needs to be past the last real instant of the month.
func rangoMes(anio, mes int) (string, string) {
	return fmt.Sprintf("%d-%02d-01T00:00:00", anio, mes),
		fmt.Sprintf("%d-%02d-31T23:59:59", anio, mes)
}

// estadoFilter narrows summaries by state prefix. CONFIRMADO and PENDIENTE
// match on their initial; any other requested state means "either".
func estadoFilter(estado string) (string, map[string]any) {
	switch estado {
	case domain.EstadoConfirmado:
		return "begins_with(estado, :ini1)", map[string]any{":ini1": "C"}
	case domain.EstadoPendiente:
		return "begins_with(estado, :ini1)", map[string]any{":ini1": "P"}
	default:
		return "begins_with(estado, :ini1) or begins_with(estado, :ini2)",
			map[string]any{":ini1": "C", ":ini2": "P"}
	}
}

type ResumenRepository struct {
	st store.Store
}

func NewResumenRepository(st store.Store) *ResumenRepository {
	return &ResumenRepository{st: st}
}

// Get fetches one summary by its identifier. Returns store.ErrNotFound when
// the id does not exist.
func (r *ResumenRepository) Get(ctx context.Context, idResumen string) (*domain.Resumen, error) {
	item, err := r.st.GetItem(ctx, store.TableResumen, store.PageKey{"idResumen": idResumen})
	if err != nil {
		return nil, err
	}
	var res domain.Resumen
	if err := store.Decode(item, &res); err != nil {
		return nil, fmt.Errorf("resumen %s: %w", idResumen, err)
	}
	return &res, nil
}

// PorMes drains every summary of one payer inside a calendar month, newest
// first, narrowed by state prefix.
func (r *ResumenRepository) PorMes(ctx context.Context, rut int64, anio, mes int, estado string) ([]domain.Resumen, error) {
	desde, hasta := rangoMes(anio, mes)
	filtro, values := estadoFilter(estado)

	w := store.NewWalker(r.st, store.QuerySpec{
		Table: store.TableResumen,
		Index: store.IndexRutFechaPago,
		Key: store.KeyCondition{
			Partition: "rut", PartitionValue: rut,
			Sort: "fechaPago", SortFrom: desde, SortTo: hasta,
		},
		Filter:   filtro,
		Values:   values,
		Backward: true,
	})

	items, _, err := w.Drain(ctx)
	if err != nil {
		return nil, err
	}

	resumenes := make([]domain.Resumen, 0, len(items))
	for _, item := range items {
		var res domain.Resumen
		if err := store.Decode(item, &res); err != nil {
			return nil, fmt.Errorf("resumen de rut %d: %w", rut, err)
		}
		resumenes = append(resumenes, res)
	}
	return resumenes, nil
}

// GetDeTerceros fetches one summary only when its state matches the prefix
// filter and its payer differs from the given rut. Summaries filtered out
// report store.ErrNotFound, same as a missing id.
func (r *ResumenRepository) GetDeTerceros(ctx context.Context, idResumen string, rut int64, estado string) (*domain.Resumen, error) {
	filtro, values := estadoFilter(estado)
	values[":rut"] = rut

	page, err := r.st.Query(ctx, store.QuerySpec{
		Table:    store.TableResumen,
		Key:      store.KeyCondition{Partition: "idResumen", PartitionValue: idResumen},
		Filter:   "(" + filtro + ") and rut <> :rut",
		Values:   values,
		Backward: true,
	})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, store.ErrNotFound
	}

	var res domain.Resumen
	if err := store.Decode(page.Items[0], &res); err != nil {
		return nil, fmt.Errorf("resumen %s: %w", idResumen, err)
	}
	return &res, nil
}
