// Package escrow tracks refundable balances owed to outbid bidders.
//
// The ledger is deliberately narrow: balances grow only via Credit and shrink
// only via TakeAll, which hands the full amount back to its owner. This keeps
// the conservation invariant (escrow total + live custody + payouts == total
// ever pulled in) checkable without looking outside the package.
package escrow

import (
	"sync"

	"github.com/asset-exchange/backend/internal/models"
	"github.com/shopspring/decimal"
)

type Ledger struct {
	mu       sync.Mutex
	balances map[models.Address]decimal.Decimal
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[models.Address]decimal.Decimal)}
}

// Credit adds amount to the pending return owed to addr.
func (l *Ledger) Credit(addr models.Address, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[addr] = l.balances[addr].Add(amount)
}

// TakeAll reads and zeroes addr's balance in one step. Zeroing before the
// caller attempts the payout transfer is what blocks a re-entrant second
// withdrawal from observing a nonzero balance.
func (l *Ledger) TakeAll(addr models.Address) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	amount := l.balances[addr]
	delete(l.balances, addr)
	return amount
}

// Restore puts back an amount previously removed by TakeAll. Used only on the
// abort path of an enclosing operation whose payout transfer failed; it is not
// part of the refund surface.
func (l *Ledger) Restore(addr models.Address, amount decimal.Decimal) {
	l.Credit(addr, amount)
}

// Reverse undoes a Credit made earlier in the same aborting operation, so the
// operation commits or rolls back as one unit. Not part of the refund surface.
func (l *Ledger) Reverse(addr models.Address, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := l.balances[addr].Sub(amount)
	if next.IsPositive() {
		l.balances[addr] = next
		return
	}
	delete(l.balances, addr)
}

// Balance returns the pending return owed to addr without mutating it.
func (l *Ledger) Balance(addr models.Address) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[addr]
}

// Total sums every pending return. Used by conservation checks.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := decimal.Zero
	for _, amount := range l.balances {
		total = total.Add(amount)
	}
	return total
}
