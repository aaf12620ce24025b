package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Parameter violation messages, fixed by the wire contract.
const (
	msgID     = "El parametro 'id' debe ser un entero mayor a 0"
	msgLimit  = "El parametro 'limit' debe ser un entero mayor a 0 y menor o igual a 1000"
	msgNext   = "El parametro 'next' debe ser un string"
	msgRut    = "El parametro 'rut' debe ser un entero mayor a 0"
	msgAnio   = "El parametro 'anio' no cumple con el rango de años permitido"
	msgMes    = "El parametro 'mes' debe ser un entre numero entre 1 y 12"
	msgEstado = "El parametro 'estado' es obligatorio"
)

// validador collects every violation of a request instead of failing on the
// first one; the 400 body lists them all.
type validador struct {
	errores []string
}

func (v *validador) fallo(mensaje string) {
	v.errores = append(v.errores, mensaje)
}

func (v *validador) ok() bool {
	return len(v.errores) == 0
}

// responder writes the collected violations and reports whether it did.
func (v *validador) responder(w http.ResponseWriter) bool {
	if v.ok() {
		return false
	}
	Errores(w, http.StatusBadRequest, v.errores...)
	return true
}

func (v *validador) enteroPositivo(raw, mensaje string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		v.fallo(mensaje)
		return 0
	}
	return n
}

func (v *validador) idPath(r *http.Request) int64 {
	return v.enteroPositivo(chi.URLParam(r, "id"), msgID)
}

func (v *validador) limit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 || n > 1000 {
		v.fallo(msgLimit)
		return 0
	}
	return n
}

// next is optional, but when present it must be non-empty.
func (v *validador) next(r *http.Request) string {
	q := r.URL.Query()
	if !q.Has("next") {
		return ""
	}
	next := q.Get("next")
	if next == "" {
		v.fallo(msgNext)
	}
	return next
}

func (v *validador) rutQuery(r *http.Request) int64 {
	return v.enteroPositivo(r.URL.Query().Get("rut"), msgRut)
}

func (v *validador) anio(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("anio"))
	if err != nil || n < 2019 || n >= 3000 {
		v.fallo(msgAnio)
		return 0
	}
	return n
}

func (v *validador) mes(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("mes"))
	if err != nil || n < 1 || n > 12 {
		v.fallo(msgMes)
		return 0
	}
	return n
}

func (v *validador) estado(r *http.Request) string {
	estado := r.URL.Query().Get("estado")
	if estado == "" {
		v.fallo(msgEstado)
	}
	return estado
}
