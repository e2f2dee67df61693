package engine

import "errors"

// Failure conditions surfaced by engine operations. Every failure aborts the
// whole operation with no partial state mutation; callers own retry policy.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAlreadyListed       = errors.New("already listed")
	ErrNotListed           = errors.New("not listed")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAuctionExists       = errors.New("unsettled auction exists")
	ErrInvalidWindow       = errors.New("auction end must be after start")
	ErrInvalidStart        = errors.New("auction start must be in the future")
	ErrAuctionNotOpen      = errors.New("auction not open")
	ErrBidTooLow           = errors.New("bid too low")
	ErrNoFunds             = errors.New("no funds to withdraw")
	ErrNotYetEnded         = errors.New("auction not yet ended")
	ErrAlreadySettled      = errors.New("auction already settled")
	ErrSellerNoLongerOwner = errors.New("seller no longer owns asset")
	ErrTransferFailed      = errors.New("transfer failed")

	// ErrReentrantCall rejects a mutating call arriving while another one is
	// still in flight, including callbacks from a malicious collaborator
	// re-entering the engine mid-transfer.
	ErrReentrantCall = errors.New("reentrant call rejected")
)
