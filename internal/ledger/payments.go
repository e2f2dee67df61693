package ledger

import (
	"errors"
	"sync"

	"github.com/asset-exchange/backend/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds     = errors.New("ledger: insufficient funds")
	ErrInsufficientAllowance = errors.New("ledger: insufficient allowance")
)

// Payments is an in-memory fungible balance store with delegated transfers.
// The custody address is the engine's own account; Transfer spends from it,
// TransferFrom spends a third party's balance against an allowance previously
// granted to the custody address.
type Payments struct {
	custody    models.Address
	mu         sync.Mutex
	balances   map[models.Address]decimal.Decimal
	allowances map[models.Address]decimal.Decimal // owner -> amount approved to custody
}

func NewPayments(custody models.Address) *Payments {
	return &Payments{
		custody:    custody,
		balances:   make(map[models.Address]decimal.Decimal),
		allowances: make(map[models.Address]decimal.Decimal),
	}
}

// Deposit funds an account out of band. Test and bootstrap helper; the real
// ledger mints balances elsewhere.
func (p *Payments) Deposit(addr models.Address, amount decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balances[addr] = p.balances[addr].Add(amount)
}

// Approve grants the custody address the right to pull up to amount from owner.
func (p *Payments) Approve(owner models.Address, amount decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.allowances[owner] = amount
}

func (p *Payments) BalanceOf(addr models.Address) decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[addr]
}

// Transfer moves amount from the custody account to to.
func (p *Payments) Transfer(to models.Address, amount decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.move(p.custody, to, amount)
}

// TransferFrom moves amount from from to to, consuming from's allowance.
func (p *Payments) TransferFrom(from, to models.Address, amount decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.allowances[from].LessThan(amount) {
		return ErrInsufficientAllowance
	}
	if err := p.move(from, to, amount); err != nil {
		return err
	}
	p.allowances[from] = p.allowances[from].Sub(amount)
	return nil
}

// move requires p.mu held.
func (p *Payments) move(from, to models.Address, amount decimal.Decimal) error {
	if p.balances[from].LessThan(amount) {
		return ErrInsufficientFunds
	}
	p.balances[from] = p.balances[from].Sub(amount)
	p.balances[to] = p.balances[to].Add(amount)
	return nil
}
