package storage

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestExportOrdersToExcel(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	orders := []OrderRecord{
		{
			ID:        "ref-1",
			ChatID:    42,
			Username:  "client",
			Contact:   "@client",
			Rate:      decimal.RequireFromString("11.5"),
			Total:     decimal.RequireFromString("2150"),
			Status:    StatusNew,
			CreatedAt: created,
			Items: []ItemRecord{
				{Position: 1, Category: "Обувь/Куртки", Size: "42", PriceCNY: decimal.NewFromInt(100),
					TotalRUB: decimal.NewNullDecimal(decimal.NewFromInt(2150))},
				{Position: 2, Category: "Техника/Другое", Size: "0", PriceCNY: decimal.NewFromInt(500)},
			},
		},
	}

	buf, err := ExportOrdersToExcel(orders)
	if err != nil {
		t.Fatalf("ExportOrdersToExcel failed: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ordersSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 items", len(rows))
	}
	if diff := cmp.Diff(exportHeaders, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	want := []string{"ref-1", "2024-05-01 12:30", "42", "client", "@client", "new", "11.5",
		"1", "Обувь/Куртки", "42", "100", "2150", "2150"}
	if diff := cmp.Diff(want, rows[1]); diff != "" {
		t.Errorf("first item row mismatch (-want +got):\n%s", diff)
	}
	if rows[2][11] != "менеджер" {
		t.Errorf("manual item total = %q", rows[2][11])
	}
}

func TestExportOrdersToExcel_Empty(t *testing.T) {
	buf, err := ExportOrdersToExcel(nil)
	if err != nil {
		t.Fatalf("ExportOrdersToExcel failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty workbook buffer")
	}
}
