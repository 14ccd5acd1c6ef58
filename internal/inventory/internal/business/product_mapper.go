package business

import (
	"strings"

	"storecatalog/internal/inventory/internal/models"
)

// Поля раскладки Productos в удалённой базе.
const (
	fieldID       = "CCProducto"
	fieldName     = "Articulo"
	fieldCategory = "Categoria"
	fieldStock    = "Existencia"
	fieldPrice1   = "Precio1"
	fieldPrice2   = "Precio2"
	fieldPrice3   = "Precio3"
	fieldPrice4   = "Precio4"
)

func ProductFromRecord(raw map[string]interface{}) models.Product {
	barcodes := ExtractBarcodes(raw)
	primary := ""
	if len(barcodes) > 0 {
		primary = barcodes[0]
	}
	return models.Product{
		ID:             strings.TrimSpace(SafeString(raw[fieldID])),
		PrimaryBarcode: primary,
		Barcodes:       barcodes,
		Name:           SafeString(raw[fieldName]),
		Category:       SafeString(raw[fieldCategory]),
		Stock:          SafeFloat(raw[fieldStock]),
		Price1:         SafeFloat(raw[fieldPrice1]),
		Price2:         SafeFloat(raw[fieldPrice2]),
		Price3:         SafeFloat(raw[fieldPrice3]),
		Price4:         SafeFloat(raw[fieldPrice4]),
	}
}

// ProductsFromRecords отображает записи и выкидывает те, у которых нет идентификатора.
// dropped - сколько записей выкинуто.
func ProductsFromRecords(records []map[string]interface{}) (products []models.Product, dropped int) {
	products = make([]models.Product, 0, len(records))
	for _, raw := range records {
		p := ProductFromRecord(raw)
		if p.ID == "" {
			dropped++
			continue
		}
		products = append(products, p)
	}
	return products, dropped
}
