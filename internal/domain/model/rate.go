package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyRateTable  = errors.New("rate table is empty")
	ErrNonPositiveRate = errors.New("rate must be a positive number")
	ErrNotAnObject     = errors.New("rate table must be a JSON object")
)

// RateTable maps currency codes to rates relative to a fixed anchor
// currency. Codes keep the order in which they were first set; setting an
// existing code replaces its rate without moving it.
//
// A table is treated as immutable once it has been handed to a session.
type RateTable struct {
	codes []Currency
	rates map[Currency]float64
}

// NewRateTable builds a table from code/rate pairs in the given order.
func NewRateTable(pairs ...Rate) RateTable {
	var t RateTable
	for _, p := range pairs {
		t.Set(p.Currency, p.Value)
	}
	return t
}

// Rate is a single table entry.
type Rate struct {
	Currency Currency `json:"currency"`
	Value    float64  `json:"rate"`
}

func (t *RateTable) Set(code Currency, rate float64) {
	if t.rates == nil {
		t.rates = make(map[Currency]float64)
	}
	if _, exists := t.rates[code]; !exists {
		t.codes = append(t.codes, code)
	}
	t.rates[code] = rate
}

func (t RateTable) Len() int {
	return len(t.codes)
}

func (t RateTable) IsEmpty() bool {
	return len(t.codes) == 0
}

// Codes returns the codes in source order. The slice is a copy.
func (t RateTable) Codes() []Currency {
	out := make([]Currency, len(t.codes))
	copy(out, t.codes)
	return out
}

func (t RateTable) Rate(code Currency) (float64, bool) {
	rate, ok := t.rates[code]
	return rate, ok
}

func (t RateTable) Has(code Currency) bool {
	_, ok := t.rates[code]
	return ok
}

// First returns the first code in source order, or "" for an empty table.
func (t RateTable) First() Currency {
	if len(t.codes) == 0 {
		return ""
	}
	return t.codes[0]
}

func (t RateTable) Clone() RateTable {
	var out RateTable
	for _, code := range t.codes {
		out.Set(code, t.rates[code])
	}
	return out
}

// Validate checks the loaded-table invariant: non-empty, every rate finite
// and greater than zero.
func (t RateTable) Validate() error {
	if t.IsEmpty() {
		return ErrEmptyRateTable
	}
	for _, code := range t.codes {
		rate := t.rates[code]
		if !(rate > 0) || math.IsInf(rate, 0) {
			return fmt.Errorf("%w: %s=%v", ErrNonPositiveRate, code, rate)
		}
	}
	return nil
}

// MarshalJSON encodes the table as a JSON object with keys in source order.
func (t RateTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, code := range t.codes {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(code))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(t.rates[code])
		if err != nil {
			return nil, fmt.Errorf("encoding rate for %s: %w", code, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of numbers, keeping key order. Any
// non-numeric value is an error.
func (t *RateTable) UnmarshalJSON(data []byte) error {
	table, skipped, err := decodeRateTable(data)
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		return fmt.Errorf("non-numeric rate for %s", skipped[0])
	}
	*t = table
	return nil
}

// DecodeRateTable decodes an upstream rate payload leniently: entries whose
// value is not a positive finite number are left out and reported back.
func DecodeRateTable(data []byte) (RateTable, []Currency, error) {
	table, skipped, err := decodeRateTable(data)
	if err != nil {
		return RateTable{}, nil, err
	}

	var out RateTable
	for _, code := range table.codes {
		rate := table.rates[code]
		if !(rate > 0) || math.IsInf(rate, 0) {
			skipped = append(skipped, code)
			continue
		}
		out.Set(code, rate)
	}
	return out, skipped, nil
}

func decodeRateTable(data []byte) (RateTable, []Currency, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return RateTable{}, nil, fmt.Errorf("decoding rate table: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return RateTable{}, nil, ErrNotAnObject
	}

	var (
		table   RateTable
		skipped []Currency
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return RateTable{}, nil, fmt.Errorf("decoding rate key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return RateTable{}, nil, fmt.Errorf("unexpected token %v in rate table", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return RateTable{}, nil, fmt.Errorf("decoding rate for %s: %w", key, err)
		}

		var rate float64
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) || json.Unmarshal(raw, &rate) != nil {
			skipped = append(skipped, Currency(key))
			continue
		}
		table.Set(Currency(key), rate)
	}

	if _, err := dec.Token(); err != nil {
		return RateTable{}, nil, fmt.Errorf("decoding rate table: %w", err)
	}
	return table, skipped, nil
}
