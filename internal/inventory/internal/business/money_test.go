package business

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		symbol string
		value  float64
		want   string
	}{
		{"L.", 1560, "L. 1,560.00"},
		{"L.", 0, "L. 0.00"},
		{"L.", 12.346, "L. 12.35"},
		{"L.", 1234567.891, "L. 1,234,567.89"},
		{"L.", -20.5, "-L. 20.50"},
		{"L.", -0.001, "L. 0.00"},
		{"", 99.9, "99.90"},
		{"L.", math.NaN(), "L. 0.00"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %v", tt.symbol, tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.symbol, tt.value))
		})
	}
}

func ExampleFormatMoney() {
	fmt.Println(FormatMoney("L.", 1560))
	// Output: L. 1,560.00
}
