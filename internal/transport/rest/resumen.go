package rest

import (
	"log"
	"net/http"
)

func (h *Handler) resumenPorRut(w http.ResponseWriter, r *http.Request) {
	var v validador
	rut := v.rutQuery(r)
	anio := v.anio(r)
	mes := v.mes(r)
	estado := v.estado(r)
	if v.responder(w) {
		return
	}

	resp, err := h.resumenes.PorMes(r.Context(), rut, anio, mes, estado)
	if err != nil {
		log.Printf("[HTTP] resumen rut %d: %v", rut, err)
		ErrorInterno(w)
		return
	}

	JSON(w, http.StatusOK, resp)
}

func (h *Handler) resumenMandante(w http.ResponseWriter, r *http.Request) {
	var v validador
	rut := v.rutQuery(r)
	anio := v.anio(r)
	mes := v.mes(r)
	estado := v.estado(r)
	if v.responder(w) {
		return
	}

	resp, err := h.mandantes.ResumenPorMes(r.Context(), rut, anio, mes, estado)
	if err != nil {
		log.Printf("[HTTP] resumen mandante %d: %v", rut, err)
		ErrorInterno(w)
		return
	}

	JSON(w, http.StatusOK, resp)
}
