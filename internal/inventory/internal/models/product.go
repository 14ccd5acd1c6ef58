package models

type Product struct {
	ID             string   `json:"id"`
	PrimaryBarcode string   `json:"primary_barcode"`
	Barcodes       []string `json:"barcodes"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Stock          float64  `json:"stock"`
	Price1         float64  `json:"price1"`
	Price2         float64  `json:"price2"`
	Price3         float64  `json:"price3"`
	Price4         float64  `json:"price4"`
}

// Prices - ценовые уровни 1..4 по порядку.
func (p *Product) Prices() [4]float64 {
	return [4]float64{p.Price1, p.Price2, p.Price3, p.Price4}
}
