package domain

// ConceptoLabels maps a concepto code to its display label. Built once at
// startup and injected; codes absent from the table surface no label.
type ConceptoLabels map[string]string

func DefaultConceptoLabels() ConceptoLabels {
	return ConceptoLabels{
		ConceptoPagoProveedores: "PAGO PROVEEDORES DEL ESTADO",
		ConceptoFinanciamiento:  "FINANCIAMIENTO PUBLICO ELECTORAL",
		ConceptoRentaAnticipada: "RENTA ANTICIPADA",
	}
}

// Vista returns the display label for a concepto code, or "" when unmapped.
func (l ConceptoLabels) Vista(concepto string) string {
	return l[concepto]
}
