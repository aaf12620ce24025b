package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/format"
	"ordenes-pago-api/internal/store"
)

// PagoMandanteView is one summary reached through the mandante index. The
// payer identity is folded into beneficiary fields; Monto is recomputed as
// the sum of that mandante's details, not the batch total.
type PagoMandanteView struct {
	IDResumen          string `json:"idResumen"`
	Estado             string `json:"estado"`
	FechaPago          string `json:"fechaPago"`
	Concepto           string `json:"concepto"`
	ConceptoVista      string `json:"conceptoVista,omitempty"`
	Institucion        string `json:"institucion"`
	Moneda             string `json:"moneda"`
	Monto              int64  `json:"monto"`
	NombreBeneficiario string `json:"nombreBeneficiario"`
	RutBeneficiario    int64  `json:"rutBeneficiario"`
}

type ResumenMandanteResponse struct {
	Pagos    []PagoMandanteView `json:"pagos"`
	Cantidad int                `json:"cantidad"`
	TotalMes int64              `json:"totalMes"`
}

// BeneficiarioView identifies the batch payer on the first page of the
// mandante detail listing.
type BeneficiarioView struct {
	Rut            string `json:"rut"`
	NombreCompleto string `json:"nombreCompleto"`
}

type DetalleMandanteResponse struct {
	Pago            *PagoView         `json:"pago,omitempty"`
	Beneficiario    *BeneficiarioView `json:"beneficiario,omitempty"`
	TotalDocumentos *int              `json:"totalDocumentos,omitempty"`
	Documentos      []Documento       `json:"documentos"`
	Next            string            `json:"next,omitempty"`
}

type MandanteService struct {
	resumenes ResumenRepo
	detalles  DetalleRepo
	labels    domain.ConceptoLabels
}

func NewMandanteService(resumenes ResumenRepo, detalles DetalleRepo, labels domain.ConceptoLabels) *MandanteService {
	return &MandanteService{resumenes: resumenes, detalles: detalles, labels: labels}
}

// ResumenPorMes joins the mandante's detail index against the summary
// table: collect the month's batch ids, fetch each summary concurrently
// keeping only third-party batches in the requested state, then recompute
// every amount as the sum of this mandante's own details.
func (s *MandanteService) ResumenPorMes(ctx context.Context, rut int64, anio, mes int, estado string) (*ResumenMandanteResponse, error) {
	ids, err := s.detalles.ResumenIDsPorMandante(ctx, rut, anio, mes)
	if err != nil {
		return nil, fmt.Errorf("resumen mandante %d: %w", rut, err)
	}

	var (
		mu          sync.Mutex
		wg          sync.WaitGroup
		firstErr    error
		encontrados []domain.Resumen
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			res, err := s.resumenes.GetDeTerceros(ctx, id, rut, estado)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return
				}
				log.Printf("[mandante] resumen %s: %v", id, err)
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			encontrados = append(encontrados, *res)
		}(id)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, fmt.Errorf("resumen mandante %d: %w", rut, firstErr)
	}

	pagos := make([]PagoMandanteView, 0, len(encontrados))
	for _, r := range encontrados {
		pagos = append(pagos, PagoMandanteView{
			IDResumen:          r.IDResumen,
			Estado:             r.Estado,
			FechaPago:          r.FechaPago,
			Concepto:           r.Concepto,
			ConceptoVista:      s.labels.Vista(r.Concepto),
			Institucion:        r.Institucion,
			Moneda:             r.Moneda,
			Monto:              r.Monto,
			NombreBeneficiario: r.Beneficiario.NombreCompleto(),
			RutBeneficiario:    r.Rut,
		})
	}

	// ordered on the batch totals, before each amount is recomputed
	ordenarPagosMandante(pagos)

	var total int64
	for i := range pagos {
		agg, err := s.detalles.ContarYSumar(ctx, pagos[i].IDResumen, rut)
		if err != nil {
			return nil, fmt.Errorf("resumen mandante %d: sumar orden %s: %w", rut, pagos[i].IDResumen, err)
		}
		pagos[i].Monto = agg.Sum
		total += agg.Sum
	}

	return &ResumenMandanteResponse{
		Pagos:    pagos,
		Cantidad: len(pagos),
		TotalMes: total,
	}, nil
}

// Detalles lists one page of a batch's documents restricted to the
// mandante's own details. The first page carries the payer identity and a
// header whose amount is the mandante's aggregate, not the batch total.
func (s *MandanteService) Detalles(ctx context.Context, id, rut int64, limit int, next string) (*DetalleMandanteResponse, error) {
	idResumen := strconv.FormatInt(id, 10)
	primera := next == ""

	var pago *PagoView
	var beneficiario *BeneficiarioView
	var total *int

	if primera {
		resumen, err := s.resumenes.Get(ctx, idResumen)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrNoEncontrado
			}
			return nil, fmt.Errorf("orden %s: %w", idResumen, err)
		}
		pago = &PagoView{
			ID:       resumen.IDResumen,
			Rut:      rut,
			Estado:   resumen.Estado,
			Fecha:    resumen.FechaPago,
			Concepto: resumen.Concepto,
			Moneda:   resumen.Moneda,
		}
		beneficiario = &BeneficiarioView{
			Rut:            format.RutConDV(resumen.Rut),
			NombreCompleto: resumen.Beneficiario.NombreCompleto(),
		}

		agg, err := s.detalles.ContarYSumar(ctx, idResumen, rut)
		if err != nil {
			return nil, fmt.Errorf("orden %s: sumar detalles: %w", idResumen, err)
		}
		total = &agg.Count
		pago.Monto = format.SeparadorMiles(agg.Sum)
	}

	page, err := s.detalles.PaginaMandante(ctx, idResumen, rut, limit, next)
	if err != nil {
		return nil, fmt.Errorf("orden %s: %w", idResumen, err)
	}
	if page.Count == 0 {
		return nil, ErrNoEncontrado
	}

	detalles, err := decodeDetalles(page.Items)
	if err != nil {
		return nil, fmt.Errorf("orden %s: %w", idResumen, err)
	}

	if primera {
		data := detalles[0].Data
		pago.MedioPago = strings.TrimSpace(data.UploadMedioPago)
		if data.UploadFechaReemplazo != "" {
			pago.FechaActualizacion = strings.TrimSpace(data.UploadFechaReemplazo)
		}
	}

	return &DetalleMandanteResponse{
		Pago:            pago,
		Beneficiario:    beneficiario,
		TotalDocumentos: total,
		Documentos:      armarYOrdenar(detalles),
		Next:            nextDesde(page),
	}, nil
}

// fechaPago descending, then institucion, beneficiary name and monto
// ascending
func ordenarPagosMandante(pagos []PagoMandanteView) {
	sort.SliceStable(pagos, func(i, j int) bool {
		a, b := pagos[i], pagos[j]
		if a.FechaPago != b.FechaPago {
			return a.FechaPago > b.FechaPago
		}
		if a.Institucion != b.Institucion {
			return a.Institucion < b.Institucion
		}
		if a.NombreBeneficiario != b.NombreBeneficiario {
			return a.NombreBeneficiario < b.NombreBeneficiario
		}
		return a.Monto < b.Monto
	})
}
