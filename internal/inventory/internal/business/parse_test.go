package business

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeString(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"json number", json.Number("0012"), "0012"},
		{"float", 12.5, "12.5"},
		{"whole float", float64(7), "7"},
		{"bool", true, "true"},
		{"int", 42, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeString(tt.in))
		})
	}
}

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"nil", nil, 0},
		{"float", 10.5, 10.5},
		{"int", 3, 3},
		{"json number", json.Number("2.25"), 2.25},
		{"bad json number", json.Number("x"), 0},
		{"numeric string", "5", 5},
		{"padded string", " 7.5 ", 7.5},
		{"garbage", "abc", 0},
		{"empty", "", 0},
		{"nan string", "NaN", 0},
		{"inf", math.Inf(1), 0},
		{"bool", true, 0},
		{"list", []interface{}{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFloat(tt.in))
		})
	}
}
