package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateTable_KeepsInsertionOrder(t *testing.T) {
	var table RateTable
	table.Set("ZAR", 20)
	table.Set("AUD", 1.6)
	table.Set("ZAR", 19)

	assert.Equal(t, []Currency{"ZAR", "AUD"}, table.Codes())
	assert.Equal(t, Currency("ZAR"), table.First())
	rate, ok := table.Rate("ZAR")
	assert.True(t, ok)
	assert.Equal(t, 19.0, rate)
}

func TestRateTable_JSONRoundTripKeepsOrder(t *testing.T) {
	payload := []byte(`{"usd": 1.08, "aed": 3.97, "btc": 0.000016, "Eur": 1}`)

	var table RateTable
	require.NoError(t, json.Unmarshal(payload, &table))
	assert.Equal(t, []Currency{"usd", "aed", "btc", "Eur"}, table.Codes())

	encoded, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(encoded))
	assert.Equal(t, `{"usd":1.08,"aed":3.97,"btc":0.000016,"Eur":1}`, string(encoded))
}

func TestRateTable_UnmarshalRejectsNonNumbers(t *testing.T) {
	var table RateTable
	assert.Error(t, json.Unmarshal([]byte(`{"usd": "1.0"}`), &table))
	assert.ErrorIs(t, json.Unmarshal([]byte(`[1, 2]`), &table), ErrNotAnObject)
	assert.Error(t, json.Unmarshal([]byte(`{"usd": 1`), &table))
}

func TestDecodeRateTable_SkipsUnusableEntries(t *testing.T) {
	payload := []byte(`{"usd": 1.08, "bad": "x", "zero": 0, "nil": null, "neg": -2, "obj": {"a": 1}, "gbp": 0.85}`)

	table, skipped, err := DecodeRateTable(payload)

	require.NoError(t, err)
	assert.Equal(t, []Currency{"usd", "gbp"}, table.Codes())
	assert.ElementsMatch(t, []Currency{"bad", "zero", "nil", "neg", "obj"}, skipped)
}

func TestRateTable_Validate(t *testing.T) {
	assert.ErrorIs(t, RateTable{}.Validate(), ErrEmptyRateTable)
	assert.ErrorIs(t, NewRateTable(Rate{Currency: "A", Value: 0}).Validate(), ErrNonPositiveRate)
	assert.NoError(t, NewRateTable(Rate{Currency: "A", Value: 0.5}).Validate())
}

func TestRateTable_CloneIsIndependent(t *testing.T) {
	original := NewRateTable(Rate{Currency: "A", Value: 1})
	clone := original.Clone()
	clone.Set("B", 2)

	assert.Equal(t, 1, original.Len())
	assert.False(t, original.Has("B"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]Currency{"A", "B"}, "B"))
	assert.False(t, Contains(nil, "A"))
}
