package invoices

// TotalPaid sums the payment ledger of one invoice.
func TotalPaid(payments []Payment) float64 {
	var paid float64
	for _, p := range payments {
		paid += p.Amount
	}
	return paid
}

// Remaining returns the outstanding balance. Overpayment yields a negative
// remainder; the domain accepts it rather than capping payment amounts.
func Remaining(total float64, payments []Payment) float64 {
	return total - TotalPaid(payments)
}
