package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, "0.01", FromFloat(0.005).Format())
	assert.Equal(t, "1.23", FromFloat(1.234).Format())
	assert.Equal(t, "1.24", FromFloat(1.235).Format())
}

func TestMulRate_RoundsEachStep(t *testing.T) {
	rate, err := decimal.NewFromString("0.0825")
	require.NoError(t, err)

	got := FromFloat(19.99).MulRate(rate)

	// 19.99 * 0.0825 = 1.649175 -> 1.65
	assert.Equal(t, "1.65", got.Format())
}

func TestFromString_RejectsGarbage(t *testing.T) {
	_, err := FromString("nineteen")
	assert.Error(t, err)
}

func TestFormat_IsStableAcrossRepeatedArithmetic(t *testing.T) {
	m := FromFloat(19.99)
	for i := 0; i < 10; i++ {
		m = m.Add(Zero)
	}
	assert.Equal(t, "19.99", m.Format())
}

func TestMarshalJSON_WireFormIsQuotedFixedPrecision(t *testing.T) {
	data, err := FromFloat(19.9).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"19.90"`, string(data))

	var m Money
	require.NoError(t, m.UnmarshalJSON(data))
	assert.True(t, m.Equal(FromFloat(19.9)))
}

func TestFromCents(t *testing.T) {
	assert.Equal(t, "0.01", FromCents(1).Format())
	assert.Equal(t, "12.34", FromCents(1234).Format())
}
