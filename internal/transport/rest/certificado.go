package rest

import (
	"errors"
	"log"
	"net/http"

	"ordenes-pago-api/internal/service"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) certificado(w http.ResponseWriter, r *http.Request) {
	var v validador
	id := v.idPath(r)
	rut := v.enteroPositivo(chi.URLParam(r, "rut"), msgRut)
	if v.responder(w) {
		return
	}

	resp, err := h.certificados.Certificado(r.Context(), id, rut)
	if err != nil {
		if errors.Is(err, service.ErrCertificadoNoExiste) {
			Errores(w, http.StatusNotFound, service.ErrCertificadoNoExiste.Error())
			return
		}
		log.Printf("[HTTP] certificado %d/%d: %v", id, rut, err)
		ErrorInterno(w)
		return
	}

	JSON(w, http.StatusOK, resp)
}
