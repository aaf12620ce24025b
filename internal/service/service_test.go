package service

import (
	"context"
	"encoding/json"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/store"
)

func itemDe(v any) store.Item {
	raw, _ := json.Marshal(v)
	var it store.Item
	_ = json.Unmarshal(raw, &it)
	return it
}

type fakeResumenRepo struct {
	porID  map[string]domain.Resumen
	porMes []domain.Resumen
	err    error
}

func (f *fakeResumenRepo) Get(_ context.Context, idResumen string) (*domain.Resumen, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.porID[idResumen]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (f *fakeResumenRepo) PorMes(_ context.Context, _ int64, _, _ int, _ string) ([]domain.Resumen, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.porMes, nil
}

func (f *fakeResumenRepo) GetDeTerceros(_ context.Context, idResumen string, rut int64, estado string) (*domain.Resumen, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.porID[idResumen]
	if !ok || r.Rut == rut || r.Estado != estado {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

type fakeDetalleRepo struct {
	detalles   map[string][]domain.Detalle
	filtrados  []store.Item
	escaneados int
	ids        []string
	err        error

	// order of ContarYSumar calls, by batch id
	sumarLlamadas []string
}

func paginar(detalles []domain.Detalle, limit int, next string) *store.Page {
	start := 0
	if next != "" {
		for i, d := range detalles {
			if d.TransactionID == next {
				start = i + 1
				break
			}
		}
	}
	end := len(detalles)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	page := &store.Page{}
	for _, d := range detalles[start:end] {
		page.Items = append(page.Items, itemDe(d))
	}
	page.Count = len(page.Items)
	page.ScannedCount = len(page.Items)
	if end < len(detalles) {
		page.LastEvaluatedKey = store.PageKey{"transactionId": detalles[end-1].TransactionID}
	}
	return page
}

func (f *fakeDetalleRepo) Pagina(_ context.Context, idResumen string, limit int, next string) (*store.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return paginar(f.detalles[idResumen], limit, next), nil
}

func (f *fakeDetalleRepo) PaginaMandante(_ context.Context, idResumen string, rutMandante int64, limit int, next string) (*store.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	var propios []domain.Detalle
	for _, d := range f.detalles[idResumen] {
		if d.RutMandante == rutMandante {
			propios = append(propios, d)
		}
	}
	return paginar(propios, limit, next), nil
}

func (f *fakeDetalleRepo) Filtrados(_ context.Context, _ string, _ *store.CompiledFilter) ([]store.Item, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.filtrados, f.escaneados, nil
}

func (f *fakeDetalleRepo) Contar(_ context.Context, idResumen string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.detalles[idResumen]), nil
}

func (f *fakeDetalleRepo) ContarYSumar(_ context.Context, idResumen string, rutMandante int64) (store.Aggregate, error) {
	if f.err != nil {
		return store.Aggregate{}, f.err
	}
	f.sumarLlamadas = append(f.sumarLlamadas, idResumen)
	var agg store.Aggregate
	for _, d := range f.detalles[idResumen] {
		if d.RutMandante == rutMandante {
			agg.Count++
			agg.Sum += d.Monto
		}
	}
	return agg, nil
}

func (f *fakeDetalleRepo) ResumenIDsPorMandante(_ context.Context, _ int64, _, _ int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}
