package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "string", input: "2024-03-01", expected: "2024-03-01"},
		{name: "integer number", input: float64(20240301), expected: "20240301"},
		{name: "fraction", input: 12.5, expected: "12.5"},
		{name: "bool", input: true, expected: "true"},
		{name: "null", input: nil, expected: "null"},
		{name: "array", input: []any{"a", float64(1), nil}, expected: "a,1,"},
		{name: "object", input: map[string]any{"y": 1}, expected: "[object Object]"},
		{name: "json number", input: json.Number("1.50"), expected: "1.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Stringify(tc.input))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1e+21", FormatNumber(1e21))
	assert.Equal(t, "1e-7", FormatNumber(1e-7))
	assert.Equal(t, "0.000001", FormatNumber(1e-6))
	assert.Equal(t, "-42", FormatNumber(-42))
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
	assert.Equal(t, "Infinity", FormatNumber(math.Inf(1)))
	assert.Equal(t, "0", FormatNumber(math.Copysign(0, -1)))
}
