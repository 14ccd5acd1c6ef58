package business

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"storecatalog/internal/inventory/internal/models"
)

func TestProductFromRecord(t *testing.T) {
	raw := map[string]interface{}{
		"CodigoBarra": "123",
		"Articulo":    "Widget",
		"Existencia":  "5",
		"Precio1":     10.5,
	}

	got := ProductFromRecord(raw)

	assert.Equal(t, models.Product{
		PrimaryBarcode: "123",
		Barcodes:       []string{"123"},
		Name:           "Widget",
		Stock:          5,
		Price1:         10.5,
	}, got)
}

func TestProductFromRecord_AllFields(t *testing.T) {
	raw := map[string]interface{}{
		"CCProducto":     json.Number("1001"),
		"CodigoBarra(1)": "750001",
		"CodigoBarra(2)": "750002",
		"Articulo":       "Café molido",
		"Categoria":      "Abarrotes",
		"Existencia":     json.Number("12.5"),
		"Precio1":        json.Number("100"),
		"Precio2":        "95.5",
		"Precio3":        nil,
		"Precio4":        "n/a",
	}

	got := ProductFromRecord(raw)

	assert.Equal(t, "1001", got.ID)
	assert.Equal(t, "750001", got.PrimaryBarcode)
	assert.Equal(t, []string{"750001", "750002"}, got.Barcodes)
	assert.Equal(t, "Café molido", got.Name)
	assert.Equal(t, "Abarrotes", got.Category)
	assert.Equal(t, 12.5, got.Stock)
	assert.Equal(t, [4]float64{100, 95.5, 0, 0}, got.Prices())
}

func TestProductsFromRecords_DropsBlankID(t *testing.T) {
	records := []map[string]interface{}{
		{"CCProducto": "1", "Articulo": "A"},
		{"CCProducto": "  ", "Articulo": "B", "CodigoBarra": "9", "Precio1": 1.0},
		{"Articulo": "C"},
		{"CCProducto": nil, "Articulo": "D"},
		{"CCProducto": "2", "Articulo": "E"},
	}

	products, dropped := ProductsFromRecords(records)

	assert.Equal(t, 3, dropped)
	if assert.Len(t, products, 2) {
		assert.Equal(t, "1", products[0].ID)
		assert.Equal(t, "2", products[1].ID)
	}
}
