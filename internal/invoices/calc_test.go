package invoices

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

func TestComputeTotals(t *testing.T) {
	items := []LineItem{
		{Description: "Design work", Quantity: 10, Rate: 100},
		{Description: "Hosting", Quantity: 1, Rate: 200},
	}

	out, totals, err := ComputeTotals(items, 10, 5)
	require.NoError(t, err)

	require.Equal(t, 1000.0, out[0].Amount)
	require.Equal(t, 200.0, out[1].Amount)
	require.Equal(t, 1200.0, totals.Subtotal)
	require.Equal(t, 120.0, totals.TaxAmount)
	require.Equal(t, 60.0, totals.DiscountAmount)
	require.Equal(t, 1260.0, totals.Total)
}

func TestComputeTotalsIgnoresCallerAmounts(t *testing.T) {
	items := []LineItem{{Description: "Consulting", Quantity: 2, Rate: 50, Amount: 9999}}

	out, totals, err := ComputeTotals(items, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 100.0, out[0].Amount)
	require.Equal(t, 100.0, totals.Total)
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	out, totals, err := ComputeTotals(nil, 18, 5)
	require.NoError(t, err)
	require.Empty(t, out)
	require.Equal(t, Totals{}, totals)
}

func TestComputeTotalsValidation(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		tax      float64
		discount float64
		wantErr  error
	}{
		{
			name:    "negative quantity",
			items:   []LineItem{{Quantity: -1, Rate: 10}},
			wantErr: ErrInvalidLineItem,
		},
		{
			name:    "negative rate",
			items:   []LineItem{{Quantity: 1, Rate: -10}},
			wantErr: ErrInvalidLineItem,
		},
		{
			name:    "negative tax",
			items:   []LineItem{{Quantity: 1, Rate: 10}},
			tax:     -1,
			wantErr: ErrInvalidRate,
		},
		{
			name:     "negative discount",
			items:    []LineItem{{Quantity: 1, Rate: 10}},
			discount: -1,
			wantErr:  ErrInvalidRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ComputeTotals(tt.items, tt.tax, tt.discount)
			require.ErrorIs(t, err, tt.wantErr)
			require.True(t, errors.Is(err, shared.ErrValidation))
		})
	}
}

func TestComputeTotalsRatesAboveHundred(t *testing.T) {
	items := []LineItem{{Description: "Retainer", Quantity: 1, Rate: 100}}

	_, totals, err := ComputeTotals(items, 0, 150)
	require.NoError(t, err)
	require.Equal(t, -50.0, totals.Total)
}

func TestComputeTotalsZeroQuantityAndRate(t *testing.T) {
	items := []LineItem{
		{Description: "Placeholder", Quantity: 0, Rate: 500},
		{Description: "Freebie", Quantity: 3, Rate: 0},
	}

	out, totals, err := ComputeTotals(items, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, out[0].Amount)
	require.Equal(t, 0.0, out[1].Amount)
	require.Equal(t, 0.0, totals.Total)
}

func TestComputeTotalsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		n := rng.Intn(8)
		items := make([]LineItem, n)
		for j := range items {
			items[j] = LineItem{
				Quantity: float64(rng.Intn(2000)) / 100,
				Rate:     float64(rng.Intn(100000)) / 100,
			}
		}
		tax := float64(rng.Intn(3000)) / 100
		discount := float64(rng.Intn(3000)) / 100

		first, firstTotals, err := ComputeTotals(items, tax, discount)
		require.NoError(t, err)

		second, secondTotals, err := ComputeTotals(first, tax, discount)
		require.NoError(t, err)
		require.Equal(t, first, second)
		require.Equal(t, firstTotals, secondTotals)

		var subtotal float64
		for _, item := range first {
			require.Equal(t, item.Quantity*item.Rate, item.Amount)
			subtotal += item.Amount
		}
		require.InDelta(t, subtotal, firstTotals.Subtotal, 1e-9)
		require.InDelta(t, subtotal+subtotal*tax/100-subtotal*discount/100, firstTotals.Total, 1e-9)
	}
}
