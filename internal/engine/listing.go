package engine

import (
	"context"
	"fmt"

	"github.com/asset-exchange/backend/internal/events"
	"github.com/asset-exchange/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// List puts an asset up for fixed-price sale. Only the current owner may list,
// at most one listing may be active per asset, and a listed asset cannot be
// under an unsettled auction.
func (e *Engine) List(ctx context.Context, caller models.Address, assetID uint64, price decimal.Decimal) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	e.state.RLock()
	_, known := e.assets[assetID]
	listing, hasListing := e.listings[assetID]
	auction, hasAuction := e.auctions[assetID]
	e.state.RUnlock()

	if !known {
		return ErrAssetNotFound
	}
	owner, err := e.registry.OwnerOf(assetID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssetNotFound, err)
	}
	if owner != caller {
		return ErrUnauthorized
	}
	if hasListing && listing.Active {
		return ErrAlreadyListed
	}
	if hasAuction && !auction.Settled {
		return ErrAuctionExists
	}
	if !price.IsPositive() {
		return ErrInvalidPrice
	}

	e.state.Lock()
	e.listings[assetID] = &models.Listing{
		AssetID:  assetID,
		Seller:   caller,
		Price:    price,
		Active:   true,
		ListedAt: e.now(),
	}
	e.everListed = append(e.everListed, assetID)
	e.state.Unlock()

	e.sink.Record(ctx, events.New(events.EventListed, map[string]any{
		"asset_id": assetID,
		"price":    price.String(),
	}))
	return nil
}

// Buy settles an active listing: the price is pulled from the buyer into
// custody, ownership moves seller -> buyer, then custody releases to the
// seller. Any failed leg unwinds the earlier ones so the operation is atomic.
func (e *Engine) Buy(ctx context.Context, caller models.Address, assetID uint64) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	e.state.RLock()
	listing, ok := e.listings[assetID]
	var price decimal.Decimal
	if ok {
		ok = listing.Active
		price = listing.Price
	}
	e.state.RUnlock()
	if !ok {
		return ErrNotListed
	}

	seller, err := e.registry.OwnerOf(assetID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssetNotFound, err)
	}
	if e.payments.BalanceOf(caller).LessThan(price) {
		return ErrInsufficientBalance
	}

	if err := e.payments.TransferFrom(caller, e.custody, price); err != nil {
		return fmt.Errorf("%w: pull payment: %v", ErrTransferFailed, err)
	}
	if err := e.registry.Transfer(seller, caller, assetID); err != nil {
		if refundErr := e.payments.Transfer(caller, price); refundErr != nil {
			e.log.Error("buy unwind failed, funds stuck in custody",
				zap.Uint64("asset_id", assetID), zap.Error(refundErr))
		}
		return fmt.Errorf("%w: asset transfer: %v", ErrTransferFailed, err)
	}
	if err := e.payments.Transfer(seller, price); err != nil {
		if backErr := e.registry.Transfer(caller, seller, assetID); backErr != nil {
			e.log.Error("buy unwind failed, ownership not restored",
				zap.Uint64("asset_id", assetID), zap.Error(backErr))
		} else if refundErr := e.payments.Transfer(caller, price); refundErr != nil {
			e.log.Error("buy unwind failed, funds stuck in custody",
				zap.Uint64("asset_id", assetID), zap.Error(refundErr))
		}
		return fmt.Errorf("%w: release to seller: %v", ErrTransferFailed, err)
	}

	e.state.Lock()
	e.listings[assetID].Active = false
	e.state.Unlock()

	e.sink.Record(ctx, events.New(events.EventSold, map[string]any{
		"asset_id": assetID,
		"buyer":    string(caller),
		"price":    price.String(),
	}))
	return nil
}
