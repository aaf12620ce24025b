package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/format"
	"ordenes-pago-api/internal/store"
)

// DetalleOrdenResponse is one page of a batch's rendered documents. Pago
// and TotalDocumentos travel on the first page only.
type DetalleOrdenResponse struct {
	Pago            *PagoView   `json:"pago,omitempty"`
	TotalDocumentos *int        `json:"totalDocumentos,omitempty"`
	Documentos      []Documento `json:"documentos"`
	Next            string      `json:"next,omitempty"`
}

type OrdenService struct {
	resumenes ResumenRepo
	detalles  DetalleRepo
}

func NewOrdenService(resumenes ResumenRepo, detalles DetalleRepo) *OrdenService {
	return &OrdenService{resumenes: resumenes, detalles: detalles}
}

// Detalles lists one page of a batch's documents. An empty next means the
// first page, which additionally carries the payment header and the total
// document count of the whole batch.
func (s *OrdenService) Detalles(ctx context.Context, id int64, limit int, next string) (*DetalleOrdenResponse, error) {
	idResumen := strconv.FormatInt(id, 10)
	primera := next == ""

	var pago *PagoView
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
			Rut:      resumen.Rut,
			Estado:   resumen.Estado,
			Fecha:    resumen.FechaPago,
			Concepto: resumen.Concepto,
			Monto:    format.SeparadorMiles(resumen.Monto),
			Moneda:   resumen.Moneda,
		}

		n, err := s.detalles.Contar(ctx, idResumen)
		if err != nil {
			return nil, fmt.Errorf("orden %s: contar detalles: %w", idResumen, err)
		}
		total = &n
	}

	page, err := s.detalles.Pagina(ctx, idResumen, limit, next)
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
		completarMedioPago(pago, detalles[0].Data)
	}

	return &DetalleOrdenResponse{
		Pago:            pago,
		TotalDocumentos: total,
		Documentos:      armarYOrdenar(detalles),
		Next:            nextDesde(page),
	}, nil
}

// completarMedioPago copies the payment-method block of the first detail
// into the header: account data for deposits, delivery address for checks,
// and the replacement date whenever the batch was re-issued.
func completarMedioPago(pago *PagoView, data domain.DetalleData) {
	pago.MedioPago = strings.TrimSpace(data.UploadMedioPago)

	switch data.UploadMedioPago {
	case domain.MedioPagoDeposito:
		pago.Banco = strings.TrimSpace(data.UploadNombreBanco)
		pago.TipoCuenta = strings.TrimSpace(data.UploadTipoCuenta)
		pago.NumeroCuenta = strings.TrimSpace(data.UploadNumeroCuenta)
	case domain.MedioPagoCheque:
		pago.DireccionEnvio = strings.TrimSpace(data.UploadDireccionEnvio)
		pago.Comuna = strings.TrimSpace(data.UploadNombreComuna)
	}

	if data.UploadFechaReemplazo != "" {
		pago.FechaActualizacion = strings.TrimSpace(data.UploadFechaReemplazo)
	}
}
