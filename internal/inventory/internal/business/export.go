package business

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"storecatalog/internal/inventory/internal/models"
)

const exportSheet = "Productos"

var exportHeader = []interface{}{
	"CCProducto", "CodigoBarra", "CodigosBarra", "Articulo", "Categoria",
	"Existencia", "Precio1", "Precio2", "Precio3", "Precio4",
}

// ExportProducts пишет каталог в XLSX: строка заголовка и по строке на товар.
func ExportProducts(w io.Writer, products []models.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	priceFormat := "#,##0.00"
	priceStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &priceFormat})
	if err != nil {
		return fmt.Errorf("failed to create price style: %w", err)
	}

	for i, p := range products {
		row := []interface{}{
			p.ID, p.PrimaryBarcode, strings.Join(p.Barcodes, ", "), p.Name, p.Category,
			p.Stock, p.Price1, p.Price2, p.Price3, p.Price4,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write product %s: %w", p.ID, err)
		}
	}

	if len(products) > 0 {
		last := len(products) + 1
		if err := f.SetCellStyle(exportSheet, "G2", fmt.Sprintf("J%d", last), priceStyle); err != nil {
			return fmt.Errorf("failed to style prices: %w", err)
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "C", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "D", "D", 40); err != nil {
		return err
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
