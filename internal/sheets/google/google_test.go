package google

import (
	"testing"
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/sheets"
)

func TestRowValues(t *testing.T) {
	row := sheets.ExportRow{
		Kind:        "expense",
		Action:      "created",
		ID:          "e-1",
		UserID:      "u-1",
		Description: "Mercado",
		Amount:      123.45,
		Date:        time.Date(2026, time.August, 7, 0, 0, 0, 0, time.UTC),
	}

	values := rowValues(row)
	if len(values) != 7 {
		t.Fatalf("row has %d cells, want 7", len(values))
	}
	if values[0] != "2026-08-07" {
		t.Errorf("date cell = %v, want 2026-08-07", values[0])
	}
	if values[1] != "expense" || values[2] != "created" {
		t.Errorf("kind/action cells = %v/%v", values[1], values[2])
	}
	if values[4] != 123.45 {
		t.Errorf("amount cell = %v, want 123.45", values[4])
	}
}
