package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"ordenes-pago-api/internal/clients"
	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/format"
	"ordenes-pago-api/internal/store"
)

// ErrCertificadoNoExiste covers every 404 of the certificate endpoint: the
// batch is missing, not CONFIRMADO, or has no detail rows.
var ErrCertificadoNoExiste = errors.New("No existe el certificado con pago en estado CONFIRMADO")

// Nodo is one node of the certificate document tree. Valor nests further
// nodes (maps or lists) or carries a leaf value.
type Nodo struct {
	Etiqueta  string `json:"etiqueta,omitempty"`
	Prioridad string `json:"prioridad,omitempty"`
	Tipo      string `json:"tipo,omitempty"`
	Valor     any    `json:"valor,omitempty"`
}

type CertificadoResponse struct {
	Data map[string]Nodo `json:"data"`
}

type CertificadorProvider interface {
	Certificador(ctx context.Context) clients.Certificador
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

const certificadoTTL = 10 * time.Minute

type CertificadoService struct {
	resumenes ResumenRepo
	detalles  DetalleRepo
	labels    domain.ConceptoLabels
	assets    CertificadorProvider
	cache     Cache
}

// NewCertificadoService builds the renderer. cache may be nil, which
// disables response caching.
func NewCertificadoService(resumenes ResumenRepo, detalles DetalleRepo, labels domain.ConceptoLabels, assets CertificadorProvider, cache Cache) *CertificadoService {
	return &CertificadoService{
		resumenes: resumenes,
		detalles:  detalles,
		labels:    labels,
		assets:    assets,
		cache:     cache,
	}
}

// Certificado renders the certificate of one confirmed batch. The caller's
// rut decides the shape: the payer gets a payment certificate, anyone else
// an endorsed-payment receipt naming both parties.
func (s *CertificadoService) Certificado(ctx context.Context, id, rut int64) (*CertificadoResponse, error) {
	key := fmt.Sprintf("certificados:%d:%d", id, rut)
	if cached := s.desdeCache(ctx, key); cached != nil {
		return cached, nil
	}

	idResumen := strconv.FormatInt(id, 10)

	resumen, err := s.resumenes.Get(ctx, idResumen)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCertificadoNoExiste
		}
		return nil, fmt.Errorf("certificado %s: %w", idResumen, err)
	}
	if resumen.Estado != domain.EstadoConfirmado {
		return nil, ErrCertificadoNoExiste
	}

	page, err := s.detalles.Pagina(ctx, idResumen, 0, "")
	if err != nil {
		return nil, fmt.Errorf("certificado %s: %w", idResumen, err)
	}
	if page.Count == 0 {
		return nil, ErrCertificadoNoExiste
	}

	var detalle domain.Detalle
	if err := store.Decode(page.Items[0], &detalle); err != nil {
		return nil, fmt.Errorf("certificado %s: %w", idResumen, err)
	}

	var resp *CertificadoResponse
	if rut != resumen.Rut {
		resp = s.comprobanteEndosado(ctx, resumen, detalle)
	} else {
		resp = s.certificadoPropio(ctx, resumen, detalle)
	}

	s.aCache(ctx, key, resp)
	return resp, nil
}

func (s *CertificadoService) desdeCache(ctx context.Context, key string) *CertificadoResponse {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil
	}
	var resp CertificadoResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		log.Printf("[certificado] cache entrada corrupta %s: %v", key, err)
		return nil
	}
	return &resp
}

func (s *CertificadoService) aCache(ctx context.Context, key string, resp *CertificadoResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), certificadoTTL); err != nil {
		log.Printf("[certificado] cache set %s: %v", key, err)
	}
}

func (s *CertificadoService) certificadoPropio(ctx context.Context, resumen *domain.Resumen, detalle domain.Detalle) *CertificadoResponse {
	datos := datosPago(resumen, detalle.Data, false)
	rutBeneficiario := format.RutConDV(resumen.Rut)

	posdata := "El Servicio de Tesorería certifica que el RUT " + rutBeneficiario +
		" ha recibido un pago por un total de " + format.MontoConMoneda(resumen.Monto, resumen.Moneda) +
		". La Institución o persona ante quien se presenta este certificado, podrá verificar su autenticidad en www.tgr.cl, ingresando el número del código de barra que se indica en el certificado."

	return &CertificadoResponse{Data: map[string]Nodo{
		"certificador": s.nodoCertificador(ctx),
		"certificado": {
			Etiqueta:  "Certificado de Pago",
			Prioridad: "B",
			Tipo:      "certificado",
			Valor: map[string]Nodo{
				"pagos": nodoPagos(datos, s.labels.Vista(resumen.Concepto)),
				"beneficiario": nodoPersona("Receptor", "A",
					resumen.Beneficiario.NombreCompleto(), rutBeneficiario),
			},
		},
		"posdata": nodoPosdata(posdata),
	}}
}

func (s *CertificadoService) comprobanteEndosado(ctx context.Context, resumen *domain.Resumen, detalle domain.Detalle) *CertificadoResponse {
	datos := datosPago(resumen, detalle.Data, true)
	rutReceptor := format.RutConDV(resumen.Rut)
	rutEmisor := format.RutConDV(detalle.RutMandante)

	posdata := "El servicio de Tesorería emite el comprobante que indica que el RUT " + rutReceptor +
		"  ha recibido el pago de los documentos cedidos por el RUT " + rutEmisor +
		" , por " + format.MontoConMoneda(resumen.Monto, resumen.Moneda) +
		". La institución o persona ante quien se presenta este comprobante, podrá verificar su autenticidad en www.tgr.cl, ingresando el número del código de barra que se indica en el comprobante."

	return &CertificadoResponse{Data: map[string]Nodo{
		"certificador": s.nodoCertificador(ctx),
		"certificado": {
			Etiqueta:  "Comprobante de Pago Endosado",
			Prioridad: "B",
			Tipo:      "comprobante",
			Valor: map[string]Nodo{
				"pagos": nodoPagos(datos, s.labels.Vista(resumen.Concepto)),
				"receptor": nodoPersona("Receptor", "A",
					detalle.Beneficiario.NombreCompleto(), rutReceptor),
				"emisor": nodoPersona("Emisor", "D",
					detalle.Mandatario.NombreCompleto(), rutEmisor),
			},
		},
		"posdata": nodoPosdata(posdata),
	}}
}

// datosPago builds the payment block of the certificate. The endorsed
// receipt hides the receiver's account and delivery data; the payment
// identifier only appears on the payer's own check certificate.
func datosPago(resumen *domain.Resumen, data domain.DetalleData, endosado bool) map[string]Nodo {
	datos := map[string]Nodo{}

	switch data.UploadMedioPago {
	case domain.MedioPagoDeposito, domain.MedioPagoCheque, domain.MedioPagoCaja:
		datos["fechaPago"] = Nodo{Etiqueta: "Fecha de Pago", Prioridad: "A", Tipo: "date", Valor: resumen.FechaPago}
		datos["monto"] = Nodo{Etiqueta: "Monto", Prioridad: "B", Tipo: "string", Valor: format.MontoConMoneda(resumen.Monto, resumen.Moneda)}
		datos["medioPago"] = Nodo{Etiqueta: "Medio de Pago", Prioridad: "F", Tipo: "string", Valor: strings.TrimSpace(data.UploadMedioPago)}
	default:
		return datos
	}

	reemplazado := data.UploadEstadoOrdenPago == domain.EstadoDocumentoEnviado && data.UploadFechaReemplazo != ""

	switch data.UploadMedioPago {
	case domain.MedioPagoDeposito:
		if !endosado {
			datos["banco"] = Nodo{Etiqueta: "Banco", Prioridad: "C", Tipo: "string", Valor: strings.TrimSpace(data.UploadNombreBanco)}
			datos["cuenta"] = Nodo{Etiqueta: "Cuenta", Prioridad: "D", Tipo: "string", Valor: strings.TrimSpace(data.UploadNumeroCuenta)}
			datos["tipoCuenta"] = Nodo{Etiqueta: "Tipo de Cuenta", Prioridad: "E", Tipo: "string", Valor: strings.TrimSpace(data.UploadTipoCuenta)}
		}
	case domain.MedioPagoCheque:
		if !endosado {
			datos["direccion"] = Nodo{Etiqueta: "Dirección", Prioridad: "C", Tipo: "string", Valor: strings.TrimSpace(data.UploadDireccionEnvio)}
			datos["comuna"] = Nodo{Etiqueta: "Comuna", Prioridad: "D", Tipo: "string", Valor: strings.TrimSpace(data.UploadNombreComuna)}
		}
		if reemplazado {
			datos["fechaActualizacion"] = Nodo{Etiqueta: "Fecha de Actualización", Prioridad: "G", Tipo: "string", Valor: strings.TrimSpace(data.UploadFechaReemplazo)}
			if !endosado {
				datos["numeroDocumento"] = Nodo{Etiqueta: "Identificador de Pago", Prioridad: "H", Tipo: "number", Valor: strings.TrimSpace(data.UploadIDDocumentoPago)}
			}
		}
	case domain.MedioPagoCaja:
		if reemplazado {
			datos["fechaActualizacion"] = Nodo{Etiqueta: "Fecha de Actualización", Prioridad: "G", Tipo: "string", Valor: strings.TrimSpace(data.UploadFechaReemplazo)}
		}
	}

	return datos
}

func (s *CertificadoService) nodoCertificador(ctx context.Context) Nodo {
	cert := s.assets.Certificador(ctx)
	return Nodo{
		Prioridad: "A",
		Tipo:      "certificador",
		Valor: map[string]Nodo{
			"primario": {
				Prioridad: "A",
				Tipo:      "institucion",
				Valor: map[string]Nodo{
					"id":     {Valor: cert.ID},
					"logo":   {Tipo: "base64", Valor: cert.Logo},
					"nombre": {Valor: cert.Nombre},
				},
			},
		},
	}
}

func nodoPagos(datos map[string]Nodo, conceptoVista string) Nodo {
	return Nodo{
		Etiqueta:  "Pago",
		Prioridad: "B",
		Tipo:      "pago",
		Valor: map[string]Nodo{
			"datos":    {Prioridad: "A", Tipo: "datos_pago", Valor: datos},
			"concepto": {Etiqueta: "Concepto de Pago", Prioridad: "B", Tipo: "string", Valor: conceptoVista},
		},
	}
}

func nodoPersona(etiqueta, prioridad, nombre, rut string) Nodo {
	return Nodo{
		Etiqueta:  etiqueta,
		Prioridad: prioridad,
		Tipo:      "persona",
		Valor: map[string]Nodo{
			"nombre": {Etiqueta: "Nombre", Prioridad: "B", Tipo: "string", Valor: nombre},
			"rut":    {Etiqueta: "RUT", Prioridad: "C", Tipo: "string", Valor: rut},
		},
	}
}

func nodoPosdata(texto string) Nodo {
	return Nodo{
		Etiqueta:  "Información",
		Prioridad: "C",
		Tipo:      "lista",
		Valor: []Nodo{
			{Prioridad: "A", Tipo: "string", Valor: texto},
		},
	}
}
