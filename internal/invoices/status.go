package invoices

// ResolveStatus derives the invoice status after a payment ledger event
// (payment added or removed).
//
// A fully covered invoice is paid. Otherwise a draft stays draft until money
// arrives, and every non-draft invoice lands in sent: a paid invoice whose
// covering payment was deleted reverts to sent, never to draft. The resolver
// never yields overdue; that state is only reachable through an explicit
// status override, not from due-date comparison.
func ResolveStatus(current Status, total, totalPaid float64) Status {
	if totalPaid >= total {
		return StatusPaid
	}
	if current == StatusDraft {
		if totalPaid > 0 {
			return StatusSent
		}
		return StatusDraft
	}
	return StatusSent
}
