package storage

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const ordersSheet = "Orders"

var exportHeaders = []string{
	"Заказ", "Дата", "Chat ID", "Username", "Контакт", "Статус", "Курс",
	"Позиция", "Категория", "Размер", "Цена, ¥", "Сумма, ₽", "Итого заказ, ₽",
}

// ExportOrdersToExcel renders orders as an xlsx workbook, one row per item.
func ExportOrdersToExcel(orders []OrderRecord) (*bytes.Buffer, error) {
	const operation = "storage.ExportOrdersToExcel"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, fmt.Errorf("%s: failed to rename sheet: %w", operation, err)
	}

	// Заголовки
	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(ordersSheet, cell, header); err != nil {
			return nil, fmt.Errorf("%s: header %s: %w", operation, cell, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create style: %w", operation, err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(ordersSheet, "A1", lastHeader, style); err != nil {
		return nil, fmt.Errorf("%s: failed to style header: %w", operation, err)
	}

	// Данные
	row := 2
	for _, o := range orders {
		items := o.Items
		if len(items) == 0 {
			items = []ItemRecord{{}}
		}
		for _, it := range items {
			var itemTotal interface{} = "менеджер"
			if it.TotalRUB.Valid {
				itemTotal = it.TotalRUB.Decimal.InexactFloat64()
			}
			if it.Category == "" {
				itemTotal = ""
			}

			data := []interface{}{
				o.ID,
				o.CreatedAt.Format("2006-01-02 15:04"),
				o.ChatID,
				o.Username,
				o.Contact,
				o.Status,
				o.Rate.InexactFloat64(),
				it.Position,
				it.Category,
				it.Size,
				it.PriceCNY.InexactFloat64(),
				itemTotal,
				o.Total.InexactFloat64(),
			}
			for col, value := range data {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(ordersSheet, cell, value); err != nil {
					return nil, fmt.Errorf("%s: cell %s: %w", operation, cell, err)
				}
			}
			row++
		}
	}

	if err := f.SetColWidth(ordersSheet, "A", "A", 38); err != nil {
		return nil, fmt.Errorf("%s: failed to set width: %w", operation, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to write workbook: %w", operation, err)
	}
	return buf, nil
}
