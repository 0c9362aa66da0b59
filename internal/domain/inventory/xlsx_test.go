package inventory

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportAndParseStocks(t *testing.T) {
	items := []Item{
		{ID: 1, Name: "Buffer", Unit: "ml", Stock: 5000, Threshold: 500},
		{ID: 2, Name: "Reagent X", Unit: "g", Stock: 20, Threshold: 2},
	}

	data, err := ExportStocks(items)
	if err != nil {
		t.Fatalf("ExportStocks: %v", err)
	}

	// дозаполняем колонку qty, как это делает админ
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetCellValue(sheet, "F2", "4500"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheet, "F3", "19,5"); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	rows, err := ParseStocksFile(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseStocksFile: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Material != "Buffer" || rows[0].Qty != 4500 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	// запятая как десятичный разделитель
	if rows[1].Material != "Reagent X" || rows[1].Qty != 19.5 {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestParseStocksFileRejectsGarbage(t *testing.T) {
	if _, err := ParseStocksFile([]byte("not an xlsx")); err == nil {
		t.Error("garbage input must fail")
	}
}

func TestParseStocksFileEmptyQtyIsZero(t *testing.T) {
	data, err := ExportStocks([]Item{{ID: 1, Name: "Buffer", Unit: "ml", Stock: 100}})
	if err != nil {
		t.Fatal(err)
	}
	rows, err := ParseStocksFile(data)
	if err != nil {
		t.Fatalf("ParseStocksFile: %v", err)
	}
	if rows[0].Qty != 0 {
		t.Errorf("empty qty = %v, want 0", rows[0].Qty)
	}
}
