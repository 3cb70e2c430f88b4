package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		input string
		want  Cents
	}{
		{"0", 0},
		{"100", 10000},
		{"99.99", 9999},
		{"0.10", 10},
		{"-5.25", -525},
		{"75000", 7500000},
	}
	for _, tt := range tests {
		got, err := ToCents(decimal.RequireFromString(tt.input))
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ToCents(decimal.RequireFromString("1.005"))
	assert.ErrorIs(t, err, ErrTooManyDecimals)
}

func TestToCents_Bounds(t *testing.T) {
	tests := []struct {
		input   string
		want    Cents
		wantErr error
	}{
		{"1000000000000.00", MaxCents, nil},
		{"-1000000000000.00", -MaxCents, nil},
		{"1000000000000.01", 0, ErrAmountTooLarge},
		{"-1000000000000.01", 0, ErrAmountTooLarge},
		{"92233720368547758.07", 0, ErrAmountTooLarge},
		{"92233720368547758.08", 0, ErrAmountTooLarge},
		{"184467440737095516.16", 0, ErrAmountTooLarge},
		{"1e40", 0, ErrAmountTooLarge},
		{"1000000000000.001", 0, ErrAmountTooLarge},
	}
	for _, tt := range tests {
		got, err := ParseCents(tt.input)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestCents_Add(t *testing.T) {
	sum, err := Cents(150).Add(250)
	require.NoError(t, err)
	assert.Equal(t, Cents(400), sum)

	sum, err = MaxCents.Add(-MaxCents)
	require.NoError(t, err)
	assert.Equal(t, Cents(0), sum)

	_, err = MaxCents.Add(1)
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	_, err = (-MaxCents).Add(-1)
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	// wraps int64 without the check
	_, err = Cents(math.MaxInt64).Add(1)
	assert.ErrorIs(t, err, ErrAmountTooLarge)
}

func TestToCents_FloatSumsCompareExactly(t *testing.T) {
	a, err := ToCents(decimal.NewFromFloat(0.1))
	require.NoError(t, err)
	b, err := ToCents(decimal.NewFromFloat(0.2))
	require.NoError(t, err)
	c, err := ToCents(decimal.NewFromFloat(0.3))
	require.NoError(t, err)

	assert.Equal(t, c, a+b)
}

func TestRoundToCents(t *testing.T) {
	assert.Equal(t, Cents(101), RoundToCents(decimal.RequireFromString("1.005")))
	assert.Equal(t, Cents(100), RoundToCents(decimal.RequireFromString("1.004")))
}

func TestParseCents(t *testing.T) {
	c, err := ParseCents("1250.50")
	require.NoError(t, err)
	assert.Equal(t, Cents(125050), c)

	_, err = ParseCents("abc")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCents_String(t *testing.T) {
	assert.Equal(t, "75000.00", Cents(7500000).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-12.30", Cents(-1230).String())
}

func TestCents_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Balance Cents `json:"balance"`
	}{Balance: 7500000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":"75000.00"}`, string(data))

	var in struct {
		A Cents `json:"a"`
		B Cents `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"12.34","b":5}`), &in))
	assert.Equal(t, Cents(1234), in.A)
	assert.Equal(t, Cents(500), in.B)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"1.234"}`), &in))
}
