package rest

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// request bodies are small; 1 MiB is far beyond any legitimate payload
const maxBodySize = 1 << 20

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, maxBodySize))
}

// JSON writes a raw JSON body. Response shapes are a compatibility
// contract, so no envelope is added.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[HTTP] write response error: %v", err)
	}
}

type erroresBody struct {
	Errors []string `json:"errors"`
}

// Errores writes the validation/error body {"errors": [...]}.
func Errores(w http.ResponseWriter, status int, mensajes ...string) {
	JSON(w, status, erroresBody{Errors: mensajes})
}

func ErrorInterno(w http.ResponseWriter) {
	Errores(w, http.StatusInternalServerError, "error interno")
}
