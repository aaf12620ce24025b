package domain

// Conceptos de pago soportados. El concepto discrimina qué campos opcionales
// del detalle están poblados.
const (
	ConceptoPagoProveedores = "PAGO_PROVEEDORES"
	ConceptoFinanciamiento  = "FINANCIAMIENTO_PUBLICO_ELECTORAL"
	ConceptoRentaAnticipada = "RENTA_ANTICIPADA"
	EstadoDocumentoEnviado  = "DOCUMENTO_ENVIADO"
	MedioPagoDeposito       = "DEPOSITO"
	MedioPagoCheque         = "CHEQUE"
	MedioPagoCaja           = "CAJA"
)

// DetalleData is the upload block attached to every detail: payment-method
// specific fields captured when the batch was loaded.
type DetalleData struct {
	UploadMedioPago       string `json:"uploadMedioPago"`
	UploadNombreBanco     string `json:"uploadNombreBanco,omitempty"`
	UploadTipoCuenta      string `json:"uploadTipoCuenta,omitempty"`
	UploadNumeroCuenta    string `json:"uploadNumeroCuenta,omitempty"`
	UploadDireccionEnvio  string `json:"uploadDireccionEnvio,omitempty"`
	UploadNombreComuna    string `json:"uploadNombreComuna,omitempty"`
	UploadEstadoOrdenPago string `json:"uploadEstadoOrdenPago,omitempty"`
	UploadFechaReemplazo  string `json:"uploadFechaReemplazo,omitempty"`
	UploadIDDocumentoPago string `json:"uploadIdDocumentoPago,omitempty"`
}

// Detalle is one transaction/document line under a Resumen. Every detail
// references an existing resumen via IDResumen and belongs to exactly one
// concepto, which determines which optional field set is meaningful.
type Detalle struct {
	TransactionID string `json:"transactionId"`
	IDResumen     string `json:"idResumen"`
	RutMandante   int64  `json:"rutMandante,omitempty"`
	FechaPago     string `json:"fechaPago"`
	Concepto      string `json:"concepto"`
	Monto         int64  `json:"monto"`
	Moneda        string `json:"moneda"`

	// PAGO_PROVEEDORES
	NumeroDocumento       int64  `json:"numeroDocumento,omitempty"`
	TipoDocumento         string `json:"tipoDocumento,omitempty"`
	FechaEmisionDocumento string `json:"fechaEmisionDocumento,omitempty"`
	RutInstitucion        int64  `json:"rutInstitucion,omitempty"`
	DVInstitucion         string `json:"dvInstitucion,omitempty"`

	// FINANCIAMIENTO_PUBLICO_ELECTORAL
	NombreEleccion string `json:"nombreEleccion,omitempty"`
	FechaEleccion  string `json:"fechaEleccion,omitempty"`
	AgnoTrimestre  int64  `json:"agnoTrimestre,omitempty"`

	// RENTA_ANTICIPADA
	FolioSolicitudRenta int64  `json:"folioSolicitudRenta,omitempty"`
	FechaSolicitudRenta string `json:"fechaSolicitudRenta,omitempty"`
	AnoTributario       int64  `json:"anoTributario,omitempty"`

	Mandatario   Persona     `json:"mandatario,omitempty"`
	Beneficiario Persona     `json:"beneficiario,omitempty"`
	Data         DetalleData `json:"data"`
}
