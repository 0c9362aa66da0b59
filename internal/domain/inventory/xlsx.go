package inventory

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// StockRow — строка импортируемого файла: целевой фактический остаток.
type StockRow struct {
	Material string
	Qty      float64
}

// ExportStocks выгружает остатки в .xlsx: колонку qty заполняют руками
// и загружают файл обратно, чтобы подогнать склад под факт.
func ExportStocks(items []Item) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"material_id",
		"material_name",
		"unit",
		"low_stock_threshold",
		"stock",
		"Количество", // целевой остаток, заполняется вручную
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("inventory: export header: %w", err)
	}

	row := 2
	for _, it := range items {
		excelRow := []interface{}{
			it.ID,
			it.Name,
			it.Unit,
			it.Threshold,
			it.Stock,
			"", // Количество — пусто
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("inventory: export cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("inventory: export row %d: %w", row, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("inventory: export write: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseStocksFile читает загруженный .xlsx и возвращает целевые остатки.
// Пустое qty = 0; запятая в числе допускается.
func ParseStocksFile(data []byte) ([]StockRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inventory: open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return nil, fmt.Errorf("inventory: import file has no data rows")
	}
	if len(rows[0]) < 6 {
		return nil, fmt.Errorf("inventory: import file must have 6 columns (material_id ... qty)")
	}

	var out []StockRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[1])
		if name == "" {
			continue
		}

		var qtyStr string
		if len(row) >= 6 {
			qtyStr = strings.TrimSpace(row[5])
		}

		var qty float64
		if qtyStr != "" {
			qty, err = strconv.ParseFloat(strings.ReplaceAll(qtyStr, ",", "."), 64)
			if err != nil || qty < 0 {
				return nil, fmt.Errorf("inventory: row %d: bad qty %q", i+1, qtyStr)
			}
		}

		out = append(out, StockRow{Material: name, Qty: qty})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("inventory: import file has no material rows")
	}
	return out, nil
}
