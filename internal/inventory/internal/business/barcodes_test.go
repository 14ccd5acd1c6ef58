package business

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBarcodes(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want []string
	}{
		{
			name: "single string",
			raw:  map[string]interface{}{"CodigoBarra": "123"},
			want: []string{"123"},
		},
		{
			name: "blank string",
			raw:  map[string]interface{}{"CodigoBarra": "   "},
			want: []string{},
		},
		{
			name: "array keeps order and drops blanks",
			raw:  map[string]interface{}{"CodigoBarra": []interface{}{"B", "", nil, " A ", "B"}},
			want: []string{"B", "A"},
		},
		{
			name: "numeric value",
			raw:  map[string]interface{}{"CodigoBarra": json.Number("7501055300075")},
			want: []string{"7501055300075"},
		},
		{
			name: "indexed keys sorted by index",
			raw: map[string]interface{}{
				"CodigoBarra(10)": "J",
				"CodigoBarra(2)":  "B",
				"CodigoBarra(1)":  "A",
			},
			want: []string{"A", "B", "J"},
		},
		{
			name: "plain field first, indexed appended without repeats",
			raw: map[string]interface{}{
				"CodigoBarra":    "X",
				"CodigoBarra(1)": "X",
				"CodigoBarra(2)": " Y ",
				"CodigoBarra(3)": "",
			},
			want: []string{"X", "Y"},
		},
		{
			name: "non matching keys ignored",
			raw: map[string]interface{}{
				"CodigoBarra()":   "no",
				"CodigoBarra(x)":  "no",
				"CodigoBarras(1)": "no",
				"Articulo":        "Widget",
			},
			want: []string{},
		},
		{
			name: "equal index ordered by key",
			raw: map[string]interface{}{
				"CodigoBarra(02)": "second",
				"CodigoBarra(2)":  "third",
				"CodigoBarra(1)":  "first",
			},
			want: []string{"first", "second", "third"},
		},
		{
			name: "missing field",
			raw:  map[string]interface{}{},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBarcodes(tt.raw))
		})
	}
}

func TestExtractBarcodes_IndexOrderIndependentOfMapOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		raw := map[string]interface{}{"CodigoBarra(2)": "B", "CodigoBarra(1)": "A"}
		assert.Equal(t, []string{"A", "B"}, ExtractBarcodes(raw))
	}
}

func TestExtractBarcodes_NoDuplicatesOrBlanks(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	pool := []string{"", " ", "1", "2", " 1", "3 ", "44", "\t"}

	for i := 0; i < 200; i++ {
		raw := map[string]interface{}{}
		list := make([]interface{}, rnd.Intn(5))
		for j := range list {
			list[j] = pool[rnd.Intn(len(pool))]
		}
		raw["CodigoBarra"] = list
		for j := 0; j < rnd.Intn(5); j++ {
			raw[fmt.Sprintf("CodigoBarra(%d)", rnd.Intn(6))] = pool[rnd.Intn(len(pool))]
		}

		got := ExtractBarcodes(raw)
		seen := map[string]bool{}
		for _, b := range got {
			require.NotEmpty(t, strings.TrimSpace(b))
			require.False(t, seen[b], "duplicate %q in %v", b, got)
			seen[b] = true
		}
	}
}

func TestDelimitedRoundTrip(t *testing.T) {
	inputs := []map[string]interface{}{
		{"CodigoBarra": "123"},
		{"CodigoBarra": []interface{}{"750100", "750200", " 750300 "}},
		{"CodigoBarra(1)": "A", "CodigoBarra(3)": "C", "CodigoBarra(2)": "B"},
		{},
	}
	for _, raw := range inputs {
		barcodes := ExtractBarcodes(raw)
		got := FromDelimited(ToDelimited(barcodes))
		if len(barcodes) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, barcodes, got)
	}
}

func TestToDelimited(t *testing.T) {
	assert.Equal(t, "1,2,3", ToDelimited([]string{"1", " ", "2", "", "3"}))
	assert.Equal(t, "", ToDelimited(nil))
}

func TestFromDelimited(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, FromDelimited(" 1 ,, 2 ,"))
	assert.Nil(t, FromDelimited(""))
	assert.Nil(t, FromDelimited("  "))
}

func TestValidBarcode(t *testing.T) {
	assert.True(t, ValidBarcode(" 123 "))
	assert.False(t, ValidBarcode(""))
	assert.False(t, ValidBarcode("1,2"))
}
