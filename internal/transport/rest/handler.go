package rest

import (
	"context"
	"net/http"
	"time"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type OrdenService interface {
	Detalles(ctx context.Context, id int64, limit int, next string) (*service.DetalleOrdenResponse, error)
}

type BuscarService interface {
	Buscar(ctx context.Context, idResumen string, filtros []domain.FilterClause) (*service.BuscarResponse, error)
}

type MandanteService interface {
	Detalles(ctx context.Context, id, rut int64, limit int, next string) (*service.DetalleMandanteResponse, error)
	ResumenPorMes(ctx context.Context, rut int64, anio, mes int, estado string) (*service.ResumenMandanteResponse, error)
}

type ResumenService interface {
	PorMes(ctx context.Context, rut int64, anio, mes int, estado string) (*service.ResumenMesResponse, error)
}

type CertificadoService interface {
	Certificado(ctx context.Context, id, rut int64) (*service.CertificadoResponse, error)
}

type WorkflowPublisher interface {
	Publicar(payload []byte) error
}

type Handler struct {
	ordenes      OrdenService
	buscador     BuscarService
	mandantes    MandanteService
	resumenes    ResumenService
	certificados CertificadoService
	workflow     WorkflowPublisher
}

func NewHandler(ordenes OrdenService, buscador BuscarService, mandantes MandanteService, resumenes ResumenService, certificados CertificadoService, workflow WorkflowPublisher) *Handler {
	return &Handler{
		ordenes:      ordenes,
		buscador:     buscador,
		mandantes:    mandantes,
		resumenes:    resumenes,
		certificados: certificados,
		workflow:     workflow,
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	r.Route("/ordenes-pago", func(r chi.Router) {
		r.Get("/{id}/detalles", h.detallesOrdenPago)
		r.Post("/detalles/buscar", h.buscarDetalles)
		r.Get("/{id}/mandante/detalles", h.detallesMandante)
		r.Get("/resumen", h.resumenPorRut)
		r.Get("/mandante/resumen", h.resumenMandante)
		r.Get("/certificados/{id}/{rut}", h.certificado)
		r.Post("/formulario-fisico", h.formularioFisico)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
