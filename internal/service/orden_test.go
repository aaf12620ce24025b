package service

import (
	"context"
	"errors"
	"testing"

	"ordenes-pago-api/internal/domain"
)

func resumenConfirmado() domain.Resumen {
	return domain.Resumen{
		IDResumen:    "5001",
		Rut:          111,
		Beneficiario: domain.Persona{Nombres: "Ana", Paterno: "Soto"},
		Estado:       domain.EstadoConfirmado,
		FechaPago:    "2024-05-10T00:00:00",
		Concepto:     domain.ConceptoPagoProveedores,
		Institucion:  "TESORERIA",
		Moneda:       "CLP",
		Monto:        150000,
	}
}

func detalleCon(id string, numero int64, data domain.DetalleData) domain.Detalle {
	d := detalleProveedores()
	d.TransactionID = id
	d.NumeroDocumento = numero
	d.Data = data
	return d
}

func TestDetallesPrimeraPagina(t *testing.T) {
	deposito := domain.DetalleData{
		UploadMedioPago:    domain.MedioPagoDeposito,
		UploadNombreBanco:  " BANCO ESTADO ",
		UploadTipoCuenta:   "CUENTA VISTA",
		UploadNumeroCuenta: " 123456 ",
	}
	repo := &fakeResumenRepo{porID: map[string]domain.Resumen{"5001": resumenConfirmado()}}
	detalles := &fakeDetalleRepo{detalles: map[string][]domain.Detalle{
		"5001": {detalleCon("tx-1", 200, deposito), detalleCon("tx-2", 30, deposito)},
	}}

	svc := NewOrdenService(repo, detalles)
	resp, err := svc.Detalles(context.Background(), 5001, 10, "")
	if err != nil {
		t.Fatalf("detalles: %v", err)
	}

	if resp.Pago == nil {
		t.Fatal("expected payment header on first page")
	}
	if resp.Pago.Monto != "150.000" {
		t.Fatalf("expected grouped monto; got %v", resp.Pago.Monto)
	}
	if resp.Pago.MedioPago != "DEPOSITO" || resp.Pago.Banco != "BANCO ESTADO" {
		t.Fatalf("unexpected payment method block: %+v", resp.Pago)
	}
	if resp.Pago.NumeroCuenta != "123456" {
		t.Fatalf("expected trimmed account; got %q", resp.Pago.NumeroCuenta)
	}
	if resp.TotalDocumentos == nil || *resp.TotalDocumentos != 2 {
		t.Fatalf("unexpected total: %v", resp.TotalDocumentos)
	}
	if len(resp.Documentos) != 2 {
		t.Fatalf("expected 2 documents; got %d", len(resp.Documentos))
	}
	// ascending by document number
	if resp.Documentos[0].Cabecera[0].Valor != int64(30) {
		t.Fatalf("unexpected order: %v", resp.Documentos[0].Cabecera[0].Valor)
	}
	if resp.Next != "" {
		t.Fatalf("expected no next cursor; got %q", resp.Next)
	}
}

func TestDetallesPaginaSiguiente(t *testing.T) {
	repo := &fakeResumenRepo{porID: map[string]domain.Resumen{"5001": resumenConfirmado()}}
	detalles := &fakeDetalleRepo{detalles: map[string][]domain.Detalle{
		"5001": {
			detalleCon("tx-1", 1, domain.DetalleData{}),
			detalleCon("tx-2", 2, domain.DetalleData{}),
			detalleCon("tx-3", 3, domain.DetalleData{}),
		},
	}}

	svc := NewOrdenService(repo, detalles)
	resp, err := svc.Detalles(context.Background(), 5001, 1, "tx-1")
	if err != nil {
		t.Fatalf("detalles: %v", err)
	}

	if resp.Pago != nil || resp.TotalDocumentos != nil {
		t.Fatalf("header fields must only travel on the first page: %+v", resp)
	}
	if len(resp.Documentos) != 1 {
		t.Fatalf("expected 1 document; got %d", len(resp.Documentos))
	}
	if resp.Next != "tx-2" {
		t.Fatalf("expected cursor tx-2; got %q", resp.Next)
	}
}

func TestDetallesCheque(t *testing.T) {
	cheque := domain.DetalleData{
		UploadMedioPago:      domain.MedioPagoCheque,
		UploadDireccionEnvio: "MONEDA 975",
		UploadNombreComuna:   "SANTIAGO",
		UploadFechaReemplazo: "2024-06-01",
	}
	repo := &fakeResumenRepo{porID: map[string]domain.Resumen{"5001": resumenConfirmado()}}
	detalles := &fakeDetalleRepo{detalles: map[string][]domain.Detalle{
		"5001": {detalleCon("tx-1", 1, cheque)},
	}}

	svc := NewOrdenService(repo, detalles)
	resp, err := svc.Detalles(context.Background(), 5001, 10, "")
	if err != nil {
		t.Fatalf("detalles: %v", err)
	}

	if resp.Pago.DireccionEnvio != "MONEDA 975" || resp.Pago.Comuna != "SANTIAGO" {
		t.Fatalf("unexpected check block: %+v", resp.Pago)
	}
	if resp.Pago.Banco != "" {
		t.Fatalf("deposit fields must stay empty for checks")
	}
	if resp.Pago.FechaActualizacion != "2024-06-01" {
		t.Fatalf("expected replacement date; got %q", resp.Pago.FechaActualizacion)
	}
}

func TestDetallesNoEncontrado(t *testing.T) {
	svc := NewOrdenService(&fakeResumenRepo{porID: map[string]domain.Resumen{}}, &fakeDetalleRepo{})

	if _, err := svc.Detalles(context.Background(), 9999, 10, ""); !errors.Is(err, ErrNoEncontrado) {
		t.Fatalf("expected ErrNoEncontrado; got %v", err)
	}
}

func TestDetallesSinFilas(t *testing.T) {
	repo := &fakeResumenRepo{porID: map[string]domain.Resumen{"5001": resumenConfirmado()}}
	svc := NewOrdenService(repo, &fakeDetalleRepo{detalles: map[string][]domain.Detalle{}})

	if _, err := svc.Detalles(context.Background(), 5001, 10, ""); !errors.Is(err, ErrNoEncontrado) {
		t.Fatalf("expected ErrNoEncontrado on empty page; got %v", err)
	}
}
