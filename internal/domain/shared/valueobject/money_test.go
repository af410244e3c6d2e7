package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(950.50), GBP)
	require.NoError(t, err)
	assert.Equal(t, GBP, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(950.50)))
}

func TestNewMoney_EmptyCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(10), "")
	assert.Error(t, err)
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyGBPFromFloat(100.25)
	b := NewMoneyGBPFromFloat(49.75)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(150.00)))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := NewMoneyGBPFromFloat(100)
	b, _ := NewMoney(decimal.NewFromInt(100), EUR)

	_, err := a.Add(b)
	assert.Error(t, err)
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyGBPFromFloat(100)
	b := NewMoneyGBPFromFloat(30)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(70)))
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyGBPFromFloat(10)
	large := NewMoneyGBPFromFloat(20)

	lt, err := small.LessThan(large)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := large.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, small.Equals(NewMoneyGBPFromFloat(10)))
	assert.False(t, small.Equals(large))
}

func TestMoney_Signs(t *testing.T) {
	assert.True(t, ZeroGBP().IsZero())
	assert.True(t, NewMoneyGBPFromFloat(1).IsPositive())
	assert.True(t, NewMoneyGBPFromFloat(-1).IsNegative())
	assert.True(t, NewMoneyGBPFromFloat(-5).Abs().IsPositive())
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyGBPFromFloat(1234.5)
	assert.Equal(t, "1234.50 GBP", m.String())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyGBPFromFloat(950.50)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("123.45"))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	assert.Equal(t, DefaultCurrency, m.Currency())

	var nilMoney Money
	require.NoError(t, nilMoney.Scan(nil))
	assert.True(t, nilMoney.IsZero())
}
