package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/asset-exchange/backend/internal/events"
	"github.com/asset-exchange/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateAuction schedules a time-boxed auction for an asset. The window is
// validated against the engine clock at call time; the auction opens and
// closes lazily as later operations observe the clock.
func (e *Engine) CreateAuction(ctx context.Context, seller models.Address, assetID uint64, start, end time.Time, minBid decimal.Decimal) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	e.state.RLock()
	_, known := e.assets[assetID]
	listing, hasListing := e.listings[assetID]
	prev, hasAuction := e.auctions[assetID]
	e.state.RUnlock()

	if !known {
		return ErrAssetNotFound
	}
	owner, err := e.registry.OwnerOf(assetID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssetNotFound, err)
	}
	if owner != seller {
		return ErrUnauthorized
	}
	if hasListing && listing.Active {
		return ErrAlreadyListed
	}
	if hasAuction && !prev.Settled {
		return ErrAuctionExists
	}
	if !end.After(start) {
		return ErrInvalidWindow
	}
	now := e.now()
	if !start.After(now) {
		return ErrInvalidStart
	}

	e.state.Lock()
	e.auctions[assetID] = &models.Auction{
		AssetID:    assetID,
		Seller:     seller,
		MinBid:     minBid,
		StartTime:  start,
		EndTime:    end,
		HighestBid: decimal.Zero,
		CreatedAt:  now,
	}
	e.state.Unlock()

	e.sink.Record(ctx, events.New(events.EventAuctionCreated, map[string]any{
		"asset_id": assetID,
		"start":    start.UTC(),
		"end":      end.UTC(),
		"min_bid":  minBid.String(),
	}))
	return nil
}

// PlaceBid accepts a bid while the auction window is open. An accepted bid
// must reach the minimum and strictly exceed the current highest; equal bids
// are rejected so the highest bidder stays unique. The previous highest
// bidder's funds are credited to escrow before the new bidder's are pulled,
// and that credit is reversed if the pull fails so the operation stays atomic.
func (e *Engine) PlaceBid(ctx context.Context, bidder models.Address, assetID uint64, amount decimal.Decimal) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	e.state.RLock()
	auction, ok := e.auctions[assetID]
	var snapshot models.Auction
	if ok {
		snapshot = *auction
	}
	e.state.RUnlock()
	if !ok {
		return ErrAssetNotFound
	}

	now := e.now()
	if !snapshot.OpenAt(now) {
		return ErrAuctionNotOpen
	}
	if amount.LessThan(snapshot.MinBid) || !amount.GreaterThan(snapshot.HighestBid) {
		return ErrBidTooLow
	}

	// The outbid bidder's refund entitlement must be durable before the new
	// bidder's funds move, so a failed pull can never orphan it.
	outbid := snapshot.HasBid()
	if outbid {
		e.escrow.Credit(snapshot.HighestBidder, snapshot.HighestBid)
	}
	if err := e.payments.TransferFrom(bidder, e.custody, amount); err != nil {
		if outbid {
			e.escrow.Reverse(snapshot.HighestBidder, snapshot.HighestBid)
		}
		return fmt.Errorf("%w: pull bid: %v", ErrTransferFailed, err)
	}

	e.state.Lock()
	auction.HighestBidder = bidder
	auction.HighestBid = amount
	auction.Bids = append(auction.Bids, models.Bid{Bidder: bidder, Amount: amount, PlacedAt: now})
	e.state.Unlock()

	e.sink.Record(ctx, events.New(events.EventBidPlaced, map[string]any{
		"asset_id": assetID,
		"bidder":   string(bidder),
		"amount":   amount.String(),
	}))
	return nil
}

// Withdraw pays out the caller's pending return from escrow. The balance is
// zeroed before the external payout so a re-entrant second withdrawal observes
// nothing to take, and restored if the payout itself fails.
func (e *Engine) Withdraw(ctx context.Context, caller models.Address) (decimal.Decimal, error) {
	if err := e.enter(); err != nil {
		return decimal.Zero, err
	}
	defer e.exit()

	amount := e.escrow.TakeAll(caller)
	if amount.IsZero() {
		return decimal.Zero, ErrNoFunds
	}
	if err := e.payments.Transfer(caller, amount); err != nil {
		e.escrow.Restore(caller, amount)
		return decimal.Zero, fmt.Errorf("%w: payout: %v", ErrTransferFailed, err)
	}
	return amount, nil
}

// EndAuction settles a closed auction exactly once. With a highest bidder the
// asset moves seller -> winner and the custodied bid releases to the seller;
// with no bids the auction just becomes terminal, leaving asset and funds
// untouched.
func (e *Engine) EndAuction(ctx context.Context, assetID uint64) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	e.state.RLock()
	auction, ok := e.auctions[assetID]
	var snapshot models.Auction
	if ok {
		snapshot = *auction
	}
	e.state.RUnlock()
	if !ok {
		return ErrAssetNotFound
	}

	if snapshot.Settled {
		return ErrAlreadySettled
	}
	if !e.now().After(snapshot.EndTime) {
		return ErrNotYetEnded
	}
	owner, err := e.registry.OwnerOf(assetID)
	if err != nil || owner != snapshot.Seller {
		return ErrSellerNoLongerOwner
	}

	winner := models.ZeroAddress
	if snapshot.HasBid() {
		winner = snapshot.HighestBidder
		if err := e.registry.Transfer(snapshot.Seller, winner, assetID); err != nil {
			return fmt.Errorf("%w: asset transfer: %v", ErrTransferFailed, err)
		}
		if err := e.payments.Transfer(snapshot.Seller, snapshot.HighestBid); err != nil {
			if backErr := e.registry.Transfer(winner, snapshot.Seller, assetID); backErr != nil {
				e.log.Error("settlement unwind failed, ownership not restored",
					zap.Uint64("asset_id", assetID), zap.Error(backErr))
			}
			return fmt.Errorf("%w: release to seller: %v", ErrTransferFailed, err)
		}
	}

	e.state.Lock()
	auction.FinalPrice = snapshot.HighestBid
	auction.Settled = true
	e.state.Unlock()

	e.sink.Record(ctx, events.New(events.EventAuctionEnded, map[string]any{
		"asset_id":    assetID,
		"winner":      string(winner),
		"final_price": snapshot.HighestBid.String(),
	}))
	return nil
}
