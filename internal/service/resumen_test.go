package service

import (
	"context"
	"testing"

	"ordenes-pago-api/internal/domain"
)

func resumenMes(id, fechaPago, institucion string, monto int64) domain.Resumen {
	r := resumenConfirmado()
	r.IDResumen = id
	r.FechaPago = fechaPago
	r.Institucion = institucion
	r.Monto = monto
	return r
}

func TestResumenPorMes(t *testing.T) {
	repo := &fakeResumenRepo{porMes: []domain.Resumen{
		resumenMes("1", "2024-05-02T00:00:00", "SALUD", 300),
		resumenMes("2", "2024-05-20T00:00:00", "TESORERIA", 100),
		resumenMes("3", "2024-05-20T00:00:00", "SALUD", 200),
	}}

	svc := NewResumenService(repo, domain.DefaultConceptoLabels())
	resp, err := svc.PorMes(context.Background(), 111, 2024, 5, domain.EstadoConfirmado)
	if err != nil {
		t.Fatalf("por mes: %v", err)
	}

	if resp.Cantidad != 3 {
		t.Fatalf("expected 3 pagos; got %d", resp.Cantidad)
	}
	if resp.TotalMes != 600 {
		t.Fatalf("expected total 600; got %d", resp.TotalMes)
	}

	// newest first, institucion breaks the date tie
	orden := []string{"3", "2", "1"}
	for i, id := range orden {
		if resp.Pagos[i].IDResumen != id {
			t.Fatalf("position %d: expected %s; got %s", i, id, resp.Pagos[i].IDResumen)
		}
	}

	if resp.Pagos[0].ConceptoVista != "PAGO PROVEEDORES DEL ESTADO" {
		t.Fatalf("unexpected display label: %q", resp.Pagos[0].ConceptoVista)
	}
}

func TestResumenPorMesVacio(t *testing.T) {
	svc := NewResumenService(&fakeResumenRepo{}, domain.DefaultConceptoLabels())

	resp, err := svc.PorMes(context.Background(), 111, 2024, 5, domain.EstadoConfirmado)
	if err != nil {
		t.Fatalf("por mes: %v", err)
	}
	if resp.Cantidad != 0 || resp.TotalMes != 0 || len(resp.Pagos) != 0 {
		t.Fatalf("expected empty month; got %+v", resp)
	}
}

func TestResumenPorMesConceptoSinEtiqueta(t *testing.T) {
	r := resumenMes("1", "2024-05-02T00:00:00", "SALUD", 300)
	r.Concepto = "OTRO"

	svc := NewResumenService(&fakeResumenRepo{porMes: []domain.Resumen{r}}, domain.DefaultConceptoLabels())
	resp, err := svc.PorMes(context.Background(), 111, 2024, 5, domain.EstadoConfirmado)
	if err != nil {
		t.Fatalf("por mes: %v", err)
	}
	if resp.Pagos[0].ConceptoVista != "" {
		t.Fatalf("expected empty label for unmapped concepto; got %q", resp.Pagos[0].ConceptoVista)
	}
}
