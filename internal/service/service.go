package service

import (
	"context"
	"errors"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/store"
)

// ErrNoEncontrado marks a lookup over a batch that yielded nothing: unknown
// id or an empty page. The boundary maps it to a 404.
var ErrNoEncontrado = errors.New("orden de pago no encontrada")

type ResumenRepo interface {
	Get(ctx context.Context, idResumen string) (*domain.Resumen, error)
	PorMes(ctx context.Context, rut int64, anio, mes int, estado string) ([]domain.Resumen, error)
	GetDeTerceros(ctx context.Context, idResumen string, rut int64, estado string) (*domain.Resumen, error)
}

type DetalleRepo interface {
	Pagina(ctx context.Context, idResumen string, limit int, next string) (*store.Page, error)
	PaginaMandante(ctx context.Context, idResumen string, rutMandante int64, limit int, next string) (*store.Page, error)
	Filtrados(ctx context.Context, idResumen string, filtro *store.CompiledFilter) ([]store.Item, int, error)
	Contar(ctx context.Context, idResumen string) (int, error)
	ContarYSumar(ctx context.Context, idResumen string, rutMandante int64) (store.Aggregate, error)
	ResumenIDsPorMandante(ctx context.Context, rutMandante int64, anio, mes int) ([]string, error)
}

// PagoView is the payment header block of the detail listings. Monto may be
// a grouped string or a plain number depending on its magnitude, hence any.
type PagoView struct {
	ID             string `json:"id"`
	Rut            int64  `json:"rut"`
	Estado         string `json:"estado"`
	Fecha          string `json:"fecha"`
	Concepto       string `json:"concepto"`
	Monto          any    `json:"monto,omitempty"`
	Moneda         string `json:"moneda"`
	MedioPago      string `json:"medioPago,omitempty"`
	Banco          string `json:"banco,omitempty"`
	TipoCuenta     string `json:"tipoCuenta,omitempty"`
	NumeroCuenta   string `json:"numeroCuenta,omitempty"`
	DireccionEnvio string `json:"direccionEnvio,omitempty"`
	Comuna         string `json:"comuna,omitempty"`

	FechaActualizacion string `json:"fechaActualizacion,omitempty"`
}

func decodeDetalles(items []store.Item) ([]domain.Detalle, error) {
	detalles := make([]domain.Detalle, 0, len(items))
	for _, item := range items {
		var d domain.Detalle
		if err := store.Decode(item, &d); err != nil {
			return nil, err
		}
		detalles = append(detalles, d)
	}
	return detalles, nil
}

func armarYOrdenar(detalles []domain.Detalle) []Documento {
	docs := make([]Documento, 0, len(detalles))
	for _, d := range detalles {
		docs = append(docs, ArmarDocumento(d))
	}
	OrdenarDocumentos(docs)
	return docs
}

func nextDesde(page *store.Page) string {
	if page.LastEvaluatedKey == nil {
		return ""
	}
	next, _ := page.LastEvaluatedKey["transactionId"].(string)
	return next
}
