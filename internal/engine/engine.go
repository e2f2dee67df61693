// Package engine owns the marketplace core: asset records, fixed-price
// listings, auction life cycles, and escrow settlement. Every mutating
// operation runs under a non-reentrant guard and either fully commits or fully
// aborts; asset ownership and fungible balances live in external collaborators
// reached through the narrow interfaces below.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asset-exchange/backend/internal/escrow"
	"github.com/asset-exchange/backend/internal/events"
	"github.com/asset-exchange/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AssetRegistry is the external ownership record. Transfer fails if from is
// not the current owner.
type AssetRegistry interface {
	OwnerOf(assetID uint64) (models.Address, error)
	Mint(owner models.Address, assetID uint64) error
	Transfer(from, to models.Address, assetID uint64) error
}

// PaymentLedger is the external fungible balance store. TransferFrom is a
// delegated pull and requires an allowance previously granted to the engine's
// custody account; that grant is the payer's responsibility, not the engine's.
type PaymentLedger interface {
	BalanceOf(addr models.Address) decimal.Decimal
	Transfer(to models.Address, amount decimal.Decimal) error
	TransferFrom(from, to models.Address, amount decimal.Decimal) error
}

type Engine struct {
	registry AssetRegistry
	payments PaymentLedger
	escrow   *escrow.Ledger
	sink     events.Sink
	custody  models.Address
	log      *zap.Logger
	now      func() time.Time

	// busy is the reentrancy guard: held for the full duration of every
	// mutating operation, external transfers included, and released on every
	// exit path. A call arriving while it is held fails fast.
	busy atomic.Bool

	// state guards the in-process tables. Never held across an external call;
	// the busy flag is what keeps validate-then-commit sound.
	state       sync.RWMutex
	assets      map[uint64]*models.Asset
	nextAssetID uint64
	listings    map[uint64]*models.Listing
	everListed  []uint64 // append-only historical index, never compacted
	auctions    map[uint64]*models.Auction
}

type Option func(*Engine)

// WithClock overrides the time source used for lazy auction-window checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(
	registry AssetRegistry,
	payments PaymentLedger,
	esc *escrow.Ledger,
	sink events.Sink,
	custody models.Address,
	log *zap.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		registry: registry,
		payments: payments,
		escrow:   esc,
		sink:     sink,
		custody:  custody,
		log:      log,
		now:      time.Now,
		assets:   make(map[uint64]*models.Asset),
		listings: make(map[uint64]*models.Listing),
		auctions: make(map[uint64]*models.Auction),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// enter acquires the reentrancy guard. Pair with a deferred exit.
func (e *Engine) enter() error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

func (e *Engine) exit() {
	e.busy.Store(false)
}

// Mint registers a new asset owned by the caller and returns its id.
// Ids are assigned monotonically starting at 0.
func (e *Engine) Mint(ctx context.Context, caller models.Address, name, description, category string) (uint64, error) {
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.exit()

	e.state.RLock()
	id := e.nextAssetID
	e.state.RUnlock()

	if err := e.registry.Mint(caller, id); err != nil {
		return 0, fmt.Errorf("%w: registry mint: %v", ErrTransferFailed, err)
	}

	e.state.Lock()
	e.assets[id] = &models.Asset{
		ID:          id,
		Creator:     caller,
		Name:        name,
		Description: description,
		Category:    category,
		MintedAt:    e.now(),
	}
	e.nextAssetID = id + 1
	e.state.Unlock()

	e.sink.Record(ctx, events.New(events.EventMinted, map[string]any{
		"asset_id": id,
		"creator":  string(caller),
	}))
	return id, nil
}

// GetDetails returns the asset record.
func (e *Engine) GetDetails(assetID uint64) (*models.Asset, error) {
	e.state.RLock()
	defer e.state.RUnlock()
	asset, ok := e.assets[assetID]
	if !ok {
		return nil, ErrAssetNotFound
	}
	copied := *asset
	return &copied, nil
}

// OwnerOf resolves the current owner through the registry.
func (e *Engine) OwnerOf(assetID uint64) (models.Address, error) {
	e.state.RLock()
	_, ok := e.assets[assetID]
	e.state.RUnlock()
	if !ok {
		return models.ZeroAddress, ErrAssetNotFound
	}
	owner, err := e.registry.OwnerOf(assetID)
	if err != nil {
		return models.ZeroAddress, fmt.Errorf("%w: %v", ErrAssetNotFound, err)
	}
	return owner, nil
}

// Listed returns the historical ever-listed index in insertion order. Entries
// are never removed when a listing closes, so callers must re-check each id's
// active flag via GetListing.
func (e *Engine) Listed() []uint64 {
	e.state.RLock()
	defer e.state.RUnlock()
	out := make([]uint64, len(e.everListed))
	copy(out, e.everListed)
	return out
}

// GetListing returns the listing record for an asset, active or not.
func (e *Engine) GetListing(assetID uint64) (*models.Listing, error) {
	e.state.RLock()
	defer e.state.RUnlock()
	listing, ok := e.listings[assetID]
	if !ok {
		return nil, ErrNotListed
	}
	copied := *listing
	return &copied, nil
}

// GetAuction returns the auction record for an asset.
func (e *Engine) GetAuction(assetID uint64) (*models.Auction, error) {
	e.state.RLock()
	defer e.state.RUnlock()
	auction, ok := e.auctions[assetID]
	if !ok {
		return nil, ErrAssetNotFound
	}
	copied := *auction
	copied.Bids = make([]models.Bid, len(auction.Bids))
	copy(copied.Bids, auction.Bids)
	return &copied, nil
}

// AuctionStatus derives the auction's state at the engine's current clock.
func (e *Engine) AuctionStatus(assetID uint64) (string, error) {
	auction, err := e.GetAuction(assetID)
	if err != nil {
		return "", err
	}
	return auction.StatusAt(e.now()), nil
}

// PendingReturn reports the caller's withdrawable escrow balance.
func (e *Engine) PendingReturn(addr models.Address) decimal.Decimal {
	return e.escrow.Balance(addr)
}

// EscrowLiability reports the sum of all outstanding escrow balances.
// Ops surface: the custody account must always hold at least this much.
func (e *Engine) EscrowLiability() decimal.Decimal {
	return e.escrow.Total()
}
