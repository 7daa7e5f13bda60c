package invoices

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   Status
		total     float64
		totalPaid float64
		want      Status
	}{
		{"fully paid", StatusSent, 1000, 1000, StatusPaid},
		{"overpaid", StatusSent, 1000, 1500, StatusPaid},
		{"zero total is always covered", StatusDraft, 0, 0, StatusPaid},
		{"draft without payments stays draft", StatusDraft, 1000, 0, StatusDraft},
		{"draft with partial payment becomes sent", StatusDraft, 1000, 400, StatusSent},
		{"sent with partial payment stays sent", StatusSent, 1000, 400, StatusSent},
		{"paid reverts to sent when coverage drops", StatusPaid, 1000, 400, StatusSent},
		{"paid never reverts to draft", StatusPaid, 1000, 0, StatusSent},
		{"overdue with partial payment becomes sent", StatusOverdue, 1000, 400, StatusSent},
		{"overdue fully covered becomes paid", StatusOverdue, 1000, 1000, StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveStatus(tt.current, tt.total, tt.totalPaid))
		})
	}
}

func TestLedgerTotals(t *testing.T) {
	payments := []Payment{{Amount: 500}, {Amount: 250.5}}

	require.Equal(t, 750.5, TotalPaid(payments))
	require.Equal(t, 249.5, Remaining(1000, payments))
	require.Equal(t, 0.0, TotalPaid(nil))
	require.Equal(t, 1000.0, Remaining(1000, nil))
}

func TestRemainingOverpayment(t *testing.T) {
	payments := []Payment{{Amount: 1200}}
	require.Equal(t, -200.0, Remaining(1000, payments))
}
