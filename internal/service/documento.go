package service

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"ordenes-pago-api/internal/domain"
	"ordenes-pago-api/internal/format"
)

// Campo is one labeled value of a rendered document.
type Campo struct {
	Etiqueta string `json:"etiqueta"`
	Tipo     string `json:"tipo"`
	Valor    any    `json:"valor"`
}

// Seccion groups body fields under a title; the first section of every
// document is untitled.
type Seccion struct {
	Titulo string  `json:"titulo"`
	Data   []Campo `json:"data"`
}

// Documento is the rendered view of one detail: a two-field header plus a
// titled body. The shape is concepto-specific.
type Documento struct {
	Cabecera []Campo   `json:"cabecera,omitempty"`
	Cuerpo   []Seccion `json:"cuerpo,omitempty"`
}

func campo(etiqueta, tipo string, valor any) Campo {
	return Campo{Etiqueta: etiqueta, Tipo: tipo, Valor: valor}
}

// ArmarDocumento renders one detail according to its concepto. A concepto
// outside the known set yields an empty document and a log line, never an
// error.
func ArmarDocumento(d domain.Detalle) Documento {
	switch d.Concepto {
	case domain.ConceptoPagoProveedores:
		return documentoProveedores(d)
	case domain.ConceptoFinanciamiento:
		return documentoFinanciamiento(d)
	case domain.ConceptoRentaAnticipada:
		return documentoRenta(d)
	default:
		log.Printf("[documento] concepto desconocido %q en detalle %s", d.Concepto, d.TransactionID)
		return Documento{}
	}
}

func documentoProveedores(d domain.Detalle) Documento {
	doc := Documento{
		Cabecera: []Campo{
			campo("Num. Documento", "numero", d.NumeroDocumento),
			campo("Monto", "monto", format.MontoConMoneda(d.Monto, d.Moneda)),
		},
	}

	doc.Cuerpo = append(doc.Cuerpo, Seccion{Data: []Campo{
		campo("FECHA DE EMISION", "fecha", d.FechaEmisionDocumento),
		// first underscore only, the rest belong to the type name
		campo("TIPO DE DOCUMENTO", "texto", strings.Replace(d.TipoDocumento, "_", " ", 1)),
	}})

	if d.RutMandante != 0 {
		doc.Cuerpo = append(doc.Cuerpo, seccionEmisor(d))
	} else {
		log.Printf("[documento] detalle %s sin rut mandante", d.TransactionID)
	}

	if d.RutInstitucion != 0 {
		doc.Cuerpo = append(doc.Cuerpo, Seccion{Titulo: "INSTITUCION PAGADORA", Data: []Campo{
			campo("RUT", "texto", format.Miles(d.RutInstitucion)+"-"+d.DVInstitucion),
		}})
	} else {
		log.Printf("[documento] detalle %s sin rut institucion", d.TransactionID)
	}

	return doc
}

func documentoFinanciamiento(d domain.Detalle) Documento {
	return Documento{
		Cabecera: []Campo{
			campo("Monto", "monto", format.MontoConMoneda(d.Monto, d.Moneda)),
			campo("NOMBRE ELECCION", "texto", d.NombreEleccion),
		},
		Cuerpo: []Seccion{
			{Data: []Campo{
				campo("FECHA ELECCION", "fecha", d.FechaEleccion),
				campo("AÑO TRIMESTRE", "numero", d.AgnoTrimestre),
			}},
			seccionEmisor(d),
		},
	}
}

func documentoRenta(d domain.Detalle) Documento {
	return Documento{
		Cabecera: []Campo{
			campo("Monto", "monto", format.MontoConMoneda(d.Monto, d.Moneda)),
			campo("Folio Solicitud Renta", "numero", d.FolioSolicitudRenta),
		},
		Cuerpo: []Seccion{
			{Data: []Campo{
				campo("FECHA SOLICITUD RENTA", "fecha", d.FechaSolicitudRenta),
				campo("AÑO TRIBUTARIO", "numero", d.AnoTributario),
			}},
			seccionEmisor(d),
		},
	}
}

func seccionEmisor(d domain.Detalle) Seccion {
	return Seccion{Titulo: "EMISOR DEL DOCUMENTO", Data: []Campo{
		campo("NOMBRE", "texto", d.Mandatario.NombreCompleto()),
		campo("RUT", "texto", format.RutConDV(d.RutMandante)),
	}}
}

// OrdenarDocumentos sorts by the first header value, ascending. Values
// compare numerically when both sides are numbers, as strings otherwise;
// documents without a header go last.
func OrdenarDocumentos(docs []Documento) {
	sort.SliceStable(docs, func(i, j int) bool {
		vi, iok := primerValor(docs[i])
		vj, jok := primerValor(docs[j])
		if !iok || !jok {
			return iok
		}
		return menorValor(vi, vj)
	})
}

func primerValor(doc Documento) (any, bool) {
	if len(doc.Cabecera) == 0 {
		return nil, false
	}
	return doc.Cabecera[0].Valor, true
}

func menorValor(a, b any) bool {
	if an, aok := asNumber(a); aok {
		if bn, bok := asNumber(b); bok {
			return an < bn
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
