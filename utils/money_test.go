package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0"},
		{500, "$500"},
		{1500, "$1.500"},
		{12500, "$12.500"},
		{1234567, "$1.234.567"},
		{1234.5, "$1.234,5"},
		{99.99, "$99,99"},
		{-2500, "-$2.500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.amount))
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"500", 500, true},
		{"$ 1500", 1500, true},
		{"1.500", 1.5, true},
		{"ARS 2500,00", 250000, true},
		{"", 0, false},
		{"consultar", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseAmount(tt.raw)
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"10", 10, true},
		{" 3 ", 3, true},
		{"0", 0, true},
		{"-2", -2, true},
		{"4 unidades", 4, true},
		{"sin stock", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.raw)
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
