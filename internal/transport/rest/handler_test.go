package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/service"
	"ordenes-pago-api/internal/store"
)

type fakeOrdenes struct {
	resp *service.DetalleOrdenResponse
	err  error

	gotID    int64
	gotLimit int
	gotNext  string
}

func (f *fakeOrdenes) Detalles(_ context.Context, id int64, limit int, next string) (*service.DetalleOrdenResponse, error) {
	f.gotID, f.gotLimit, f.gotNext = id, limit, next
	return f.resp, f.err
}

type fakeBuscador struct {
	resp *service.BuscarResponse
	err  error

	gotID      string
	gotFiltros []domain.FilterClause
}

func (f *fakeBuscador) Buscar(_ context.Context, idResumen string, filtros []domain.FilterClause) (*service.BuscarResponse, error) {
	f.gotID, f.gotFiltros = idResumen, filtros
	return f.resp, f.err
}

type fakeMandantes struct {
	detalles *service.DetalleMandanteResponse
	resumen  *service.ResumenMandanteResponse
	err      error
}

func (f *fakeMandantes) Detalles(_ context.Context, _, _ int64, _ int, _ string) (*service.DetalleMandanteResponse, error) {
	return f.detalles, f.err
}

func (f *fakeMandantes) ResumenPorMes(_ context.Context, _ int64, _, _ int, _ string) (*service.ResumenMandanteResponse, error) {
	return f.resumen, f.err
}

type fakeResumenes struct {
	resp *service.ResumenMesResponse
	err  error
}

func (f *fakeResumenes) PorMes(_ context.Context, _ int64, _, _ int, _ string) (*service.ResumenMesResponse, error) {
	return f.resp, f.err
}

type fakeCertificados struct {
	resp *service.CertificadoResponse
	err  error
}

func (f *fakeCertificados) Certificado(_ context.Context, _, _ int64) (*service.CertificadoResponse, error) {
	return f.resp, f.err
}

type fakeWorkflow struct {
	payload []byte
	err     error
}

func (f *fakeWorkflow) Publicar(payload []byte) error {
	f.payload = payload
	return f.err
}

type fixtures struct {
	ordenes      *fakeOrdenes
	buscador     *fakeBuscador
	mandantes    *fakeMandantes
	resumenes    *fakeResumenes
	certificados *fakeCertificados
	workflow     *fakeWorkflow
}

func newTestRouter() (http.Handler, *fixtures) {
	f := &fixtures{
		ordenes:      &fakeOrdenes{resp: &service.DetalleOrdenResponse{}},
		buscador:     &fakeBuscador{resp: &service.BuscarResponse{}},
		mandantes:    &fakeMandantes{detalles: &service.DetalleMandanteResponse{}, resumen: &service.ResumenMandanteResponse{}},
		resumenes:    &fakeResumenes{resp: &service.ResumenMesResponse{}},
		certificados: &fakeCertificados{resp: &service.CertificadoResponse{}},
		workflow:     &fakeWorkflow{},
	}
	h := NewHandler(f.ordenes, f.buscador, f.mandantes, f.resumenes, f.certificados, f.workflow)
	return h.InitRouter(), f
}

func doRequest(t *testing.T, router http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeErrores(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Errors
}

func TestDetallesOrdenPago(t *testing.T) {
	router, f := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/5001/detalles?limit=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
	if f.ordenes.gotID != 5001 || f.ordenes.gotLimit != 10 || f.ordenes.gotNext != "" {
		t.Fatalf("unexpected service args: id=%d limit=%d next=%q", f.ordenes.gotID, f.ordenes.gotLimit, f.ordenes.gotNext)
	}
}

func TestDetallesOrdenPagoValidacion(t *testing.T) {
	router, _ := newTestRouter()

	// invalid id, invalid limit and an empty next collect three violations
	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/abc/detalles?limit=0&next=", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400; got %d", rec.Code)
	}
	errores := decodeErrores(t, rec)
	if len(errores) != 3 {
		t.Fatalf("expected 3 violations; got %v", errores)
	}
	if errores[0] != msgID || errores[1] != msgLimit || errores[2] != msgNext {
		t.Fatalf("unexpected messages: %v", errores)
	}
}

func TestDetallesOrdenPagoNoEncontrado(t *testing.T) {
	router, f := newTestRouter()
	f.ordenes.resp = nil
	f.ordenes.err = service.ErrNoEncontrado

	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/5001/detalles?limit=10", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404; got %d", rec.Code)
	}
	errores := decodeErrores(t, rec)
	if len(errores) != 1 || errores[0] != service.ErrNoEncontrado.Error() {
		t.Fatalf("unexpected body: %v", errores)
	}
}

func TestBuscarDetalles(t *testing.T) {
	router, f := newTestRouter()
	f.buscador.resp = &service.BuscarResponse{Coincidencias: 2, TotalDocumentos: 5}

	body := []byte(`{"id":5001,"filtros":[{"nombre":"monto","condicion":"[gte]","valor":"1000","tipo":"number","orden":1}]}`)
	rec := doRequest(t, router, http.MethodPost, "/ordenes-pago/detalles/buscar", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
	if f.buscador.gotID != "5001" || len(f.buscador.gotFiltros) != 1 {
		t.Fatalf("unexpected service args: %s %v", f.buscador.gotID, f.buscador.gotFiltros)
	}
}

func TestBuscarSinCoincidenciasConservaCuerpo(t *testing.T) {
	router, f := newTestRouter()
	f.buscador.resp = &service.BuscarResponse{Coincidencias: 0, TotalDocumentos: 3}

	rec := doRequest(t, router, http.MethodPost, "/ordenes-pago/detalles/buscar", []byte(`{"id":5001}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404; got %d", rec.Code)
	}

	var resp service.BuscarResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.TotalDocumentos != 3 {
		t.Fatalf("404 must keep the full body; got %+v", resp)
	}
}

func TestBuscarCuerpoInvalido(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodPost, "/ordenes-pago/detalles/buscar", []byte(`{`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400; got %d", rec.Code)
	}
}

func TestBuscarSinID(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodPost, "/ordenes-pago/detalles/buscar", []byte(`{"filtros":[]}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400; got %d", rec.Code)
	}
	errores := decodeErrores(t, rec)
	if len(errores) != 1 || errores[0] != msgID {
		t.Fatalf("unexpected body: %v", errores)
	}
}

func TestBuscarFiltroMalformado(t *testing.T) {
	router, f := newTestRouter()
	f.buscador.resp = nil
	f.buscador.err = &store.FilterError{Clause: 0, Message: "condicion desconocida"}

	rec := doRequest(t, router, http.MethodPost, "/ordenes-pago/detalles/buscar", []byte(`{"id":5001}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400; got %d", rec.Code)
	}
}

func TestResumenPorRutValidacion(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/resumen", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400; got %d", rec.Code)
	}
	errores := decodeErrores(t, rec)
	if len(errores) != 4 {
		t.Fatalf("expected 4 violations; got %v", errores)
	}
}

func TestResumenPorRut(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/resumen?rut=111&anio=2024&mes=5&estado=CONFIRMADO", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
}

func TestResumenAnioFueraDeRango(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/resumen?rut=111&anio=2018&mes=5&estado=CONFIRMADO", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400; got %d", rec.Code)
	}
	errores := decodeErrores(t, rec)
	if len(errores) != 1 || errores[0] != msgAnio {
		t.Fatalf("unexpected body: %v", errores)
	}
}

func TestResumenMandante(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/mandante/resumen?rut=400&anio=2024&mes=5&estado=CONFIRMADO", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
}

func TestDetallesMandante(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/5001/mandante/detalles?rut=400&limit=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
}

func TestCertificado(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/certificados/5001/111", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
}

func TestCertificadoNoExiste(t *testing.T) {
	router, f := newTestRouter()
	f.certificados.resp = nil
	f.certificados.err = service.ErrCertificadoNoExiste

	rec := doRequest(t, router, http.MethodGet, "/ordenes-pago/certificados/5001/111", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404; got %d", rec.Code)
	}
	errores := decodeErrores(t, rec)
	if len(errores) != 1 || errores[0] != service.ErrCertificadoNoExiste.Error() {
		t.Fatalf("unexpected body: %v", errores)
	}
}

func TestFormularioFisico(t *testing.T) {
	router, f := newTestRouter()

	payload := []byte(`{"formulario":"f-29"}`)
	rec := doRequest(t, router, http.MethodPost, "/ordenes-pago/formulario-fisico", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
	if !bytes.Equal(f.workflow.payload, payload) {
		t.Fatalf("payload must reach the workflow untouched; got %s", f.workflow.payload)
	}
	if !strings.Contains(rec.Body.String(), "Recepción correcta.") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
