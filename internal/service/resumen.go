package service

import (
	"context"
	"fmt"
	"sort"

	"ordenes-pago-api/internal/domain"
)

// PagoResumenView is one monthly summary line. ConceptoVista is the display
// label resolved from the concepto code.
type PagoResumenView struct {
	IDResumen     string `json:"idResumen"`
	Rut           int64  `json:"rut"`
	Estado        string `json:"estado"`
	FechaPago     string `json:"fechaPago"`
	Concepto      string `json:"concepto"`
	ConceptoVista string `json:"conceptoVista,omitempty"`
	Institucion   string `json:"institucion"`
	Moneda        string `json:"moneda"`
	Monto         int64  `json:"monto"`
}

// ResumenMesResponse aggregates one payer's month: the summaries, how many
// there are, and their monetary total.
type ResumenMesResponse struct {
	Pagos    []PagoResumenView `json:"pagos"`
	Cantidad int               `json:"cantidad"`
	TotalMes int64             `json:"totalMes"`
}

type ResumenService struct {
	resumenes ResumenRepo
	labels    domain.ConceptoLabels
}

func NewResumenService(resumenes ResumenRepo, labels domain.ConceptoLabels) *ResumenService {
	return &ResumenService{resumenes: resumenes, labels: labels}
}

// PorMes lists a payer's summaries inside one calendar month, narrowed by
// state prefix. An empty month is a 200 with zero pagos, not an error.
func (s *ResumenService) PorMes(ctx context.Context, rut int64, anio, mes int, estado string) (*ResumenMesResponse, error) {
	resumenes, err := s.resumenes.PorMes(ctx, rut, anio, mes, estado)
	if err != nil {
		return nil, fmt.Errorf("resumen de rut %d: %w", rut, err)
	}

	pagos := make([]PagoResumenView, 0, len(resumenes))
	var total int64
	for _, r := range resumenes {
		pagos = append(pagos, PagoResumenView{
			IDResumen:     r.IDResumen,
			Rut:           r.Rut,
			Estado:        r.Estado,
			FechaPago:     r.FechaPago,
			Concepto:      r.Concepto,
			ConceptoVista: s.labels.Vista(r.Concepto),
			Institucion:   r.Institucion,
			Moneda:        r.Moneda,
			Monto:         r.Monto,
		})
		total += r.Monto
	}

	ordenarPagosResumen(pagos)

	return &ResumenMesResponse{
		Pagos:    pagos,
		Cantidad: len(pagos),
		TotalMes: total,
	}, nil
}

// fechaPago descending, then institucion and monto ascending
func ordenarPagosResumen(pagos []PagoResumenView) {
	sort.SliceStable(pagos, func(i, j int) bool {
		a, b := pagos[i], pagos[j]
		if a.FechaPago != b.FechaPago {
			return a.FechaPago > b.FechaPago
		}
		if a.Institucion != b.Institucion {
			return a.Institucion < b.Institucion
		}
		return a.Monto < b.Monto
	})
}
