package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		want     string
	}{
		{"no discount", "50", "0", "50"},
		{"twenty percent", "100", "20", "80"},
		{"fractional", "19.99", "10", "17.991"},
		{"full discount", "40", "100", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FinalPrice(decimal.RequireFromString(tt.price), decimal.RequireFromString(tt.discount))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestLineTotal(t *testing.T) {
	total := LineTotal(decimal.NewFromInt(100), decimal.NewFromInt(20), 3)
	assert.True(t, decimal.NewFromInt(240).Equal(total), "got %s", total)
}

func TestCartLine_TotalPrice(t *testing.T) {
	line := CartLine{Price: decimal.NewFromInt(100), DiscountAmount: decimal.NewFromInt(20), Quantity: 3}

	assert.True(t, decimal.NewFromInt(80).Equal(line.FinalPrice()))
	assert.True(t, decimal.NewFromInt(240).Equal(line.TotalPrice()))
}

func TestPurchase_ItemsRoundTrip(t *testing.T) {
	p := NewPurchase("01234567890", []int64{3, 17, 3}, decimal.NewFromInt(10))

	assert.Equal(t, "3,17,3", p.Items)

	ids, err := p.ItemIDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 17, 3}, ids)
}

func TestSplitItemIDs_TrimsAndSkipsBlanks(t *testing.T) {
	ids, err := SplitItemIDs(" 1, 2 ,,4")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, ids)

	ids, err = SplitItemIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = SplitItemIDs("1,abc")
	assert.Error(t, err)
}

func TestProduct_IsDiscounted(t *testing.T) {
	assert.False(t, Product{DiscountAmount: decimal.Zero}.IsDiscounted())
	assert.True(t, Product{DiscountAmount: decimal.NewFromInt(5)}.IsDiscounted())
}
