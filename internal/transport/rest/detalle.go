package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/service"
	"ordenes-pago-api/internal/store"
)

func (h *Handler) detallesOrdenPago(w http.ResponseWriter, r *http.Request) {
	var v validador
	id := v.idPath(r)
	limit := v.limit(r)
	next := v.next(r)
	if v.responder(w) {
		return
	}

	resp, err := h.ordenes.Detalles(r.Context(), id, limit, next)
	if err != nil {
		if errors.Is(err, service.ErrNoEncontrado) {
			Errores(w, http.StatusNotFound, service.ErrNoEncontrado.Error())
			return
		}
		log.Printf("[HTTP] detalles orden %d: %v", id, err)
		ErrorInterno(w)
		return
	}

	JSON(w, http.StatusOK, resp)
}

type buscarRequest struct {
	ID      json.Number           `json:"id"`
	Filtros []domain.FilterClause `json:"filtros"`
}

func (h *Handler) buscarDetalles(w http.ResponseWriter, r *http.Request) {
	var req buscarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Errores(w, http.StatusBadRequest, "el cuerpo debe ser JSON valido")
		return
	}
	if req.ID.String() == "" {
		Errores(w, http.StatusBadRequest, msgID)
		return
	}

	resp, err := h.buscador.Buscar(r.Context(), req.ID.String(), req.Filtros)
	if err != nil {
		var ferr *store.FilterError
		if errors.As(err, &ferr) {
			Errores(w, http.StatusBadRequest, ferr.Error())
			return
		}
		log.Printf("[HTTP] buscar en orden %s: %v", req.ID, err)
		ErrorInterno(w)
		return
	}

	// zero matches keep the full body, only the status changes
	status := http.StatusOK
	if resp.Coincidencias == 0 {
		status = http.StatusNotFound
	}
	JSON(w, status, resp)
}

func (h *Handler) detallesMandante(w http.ResponseWriter, r *http.Request) {
	var v validador
	id := v.idPath(r)
	rut := v.rutQuery(r)
	limit := v.limit(r)
	next := v.next(r)
	if v.responder(w) {
		return
	}

	resp, err := h.mandantes.Detalles(r.Context(), id, rut, limit, next)
	if err != nil {
		if errors.Is(err, service.ErrNoEncontrado) {
			Errores(w, http.StatusNotFound, service.ErrNoEncontrado.Error())
			return
		}
		log.Printf("[HTTP] detalles mandante %d orden %d: %v", rut, id, err)
		ErrorInterno(w)
		return
	}

	JSON(w, http.StatusOK, resp)
}

func (h *Handler) formularioFisico(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		Errores(w, http.StatusBadRequest, "no se pudo leer el cuerpo")
		return
	}

	if err := h.workflow.Publicar(body); err != nil {
		log.Printf("[HTTP] formulario fisico: %v", err)
		Errores(w, http.StatusBadRequest, fmt.Sprintf("%v", err))
		return
	}

	JSON(w, http.StatusOK, map[string]string{"message": "Recepción correcta."})
}
