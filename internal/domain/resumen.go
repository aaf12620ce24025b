package domain

import "strings"

// Estados de un resumen de orden de pago. El almacén puede contener otros
// valores; los endpoints filtran por prefijo ("C", "P").
const (
	EstadoConfirmado = "CONFIRMADO"
	EstadoPendiente  = "PENDIENTE"
)

// Persona is a decomposed Chilean-style full name, used for beneficiarios
// and mandatarios alike.
type Persona struct {
	Nombres string `json:"nombres,omitempty"`
	Materno string `json:"materno,omitempty"`
	Paterno string `json:"paterno"`
}

// NombreCompleto joins the name parts as "nombres materno paterno",
// skipping empty middle parts.
func (p Persona) NombreCompleto() string {
	var b strings.Builder
	if p.Nombres != "" {
		b.WriteString(p.Nombres)
		b.WriteString(" ")
	}
	if p.Materno != "" {
		b.WriteString(p.Materno)
		b.WriteString(" ")
	}
	b.WriteString(p.Paterno)
	return b.String()
}

// Resumen is one payment batch. Read-only for this service; created and
// mutated upstream.
type Resumen struct {
	IDResumen    string  `json:"idResumen"`
	Rut          int64   `json:"rut"`
	Beneficiario Persona `json:"beneficiario"`
	Estado       string  `json:"estado"`
	FechaPago    string  `json:"fechaPago"`
	Concepto     string  `json:"concepto"`
	Institucion  string  `json:"institucion"`
	Moneda       string  `json:"moneda"`
	Monto        int64   `json:"monto"`
}
