package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"currency-calculator/internal/domain/model"
)

// ComputeDisplayedValues converts the base amount into every currency of
// the rate table: amount * rate(c) / rate(base). The base currency's own
// entry is the parsed amount itself rather than the formula result.
//
// When the base currency is not a key of the table (nothing loaded yet)
// every derived entry is NaN. Values are not rounded.
func ComputeDisplayedValues(s *State) map[model.Currency]float64 {
	amount := ParseAmount(s.amount)
	codes := s.rates.Codes()
	values := make(map[model.Currency]float64, len(codes)+1)

	baseRate, ok := s.rates.Rate(s.base)
	for _, code := range codes {
		if !ok {
			values[code] = math.NaN()
			continue
		}
		rate, _ := s.rates.Rate(code)
		values[code] = amount * rate / baseRate
	}

	if !s.base.IsZero() {
		values[s.base] = amount
	}
	return values
}

// ParseAmount reads user-typed amount text. The first ',' is taken as the
// decimal separator. Parsing follows JavaScript parseFloat: leading
// whitespace is skipped and the longest numeric prefix wins, so "12abc"
// is 12. Anything without a numeric prefix is 0.
func ParseAmount(text string) float64 {
	normalized := strings.Replace(text, ",", ".", 1)
	v := parseFloatPrefix(normalized)
	if math.IsNaN(v) || v == 0 {
		return 0
	}
	return v
}

func parseFloatPrefix(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
