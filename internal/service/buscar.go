package service

import (
	"context"
	"fmt"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/store"
)

// BuscarResponse reports every document of a batch matching a declarative
// filter, plus how many rows the scan examined. Coincidencias of zero is a
// valid result; the boundary decides the status code.
type BuscarResponse struct {
	Pago            *PagoView   `json:"pago,omitempty"`
	Coincidencias   int         `json:"coincidencias"`
	TotalDocumentos int         `json:"totalDocumentos"`
	Documentos      []Documento `json:"documentos"`
}

type BuscarService struct {
	detalles DetalleRepo
}

func NewBuscarService(detalles DetalleRepo) *BuscarService {
	return &BuscarService{detalles: detalles}
}

// Buscar compiles the clause list and drains every page of the batch under
// it. A malformed filter surfaces as *store.FilterError before any store
// call.
func (s *BuscarService) Buscar(ctx context.Context, idResumen string, filtros []domain.FilterClause) (*BuscarResponse, error) {
	filtro, err := store.CompileFilters(filtros, idResumen)
	if err != nil {
		return nil, err
	}

	items, escaneados, err := s.detalles.Filtrados(ctx, idResumen, filtro)
	if err != nil {
		return nil, fmt.Errorf("buscar en orden %s: %w", idResumen, err)
	}

	detalles, err := decodeDetalles(items)
	if err != nil {
		return nil, fmt.Errorf("buscar en orden %s: %w", idResumen, err)
	}

	return &BuscarResponse{
		Coincidencias:   len(detalles),
		TotalDocumentos: escaneados,
		Documentos:      armarYOrdenar(detalles),
	}, nil
}
