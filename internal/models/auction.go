package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Auction statuses. Scheduled/Open/Closed are derived lazily from the clock;
// only Settled is a stored, terminal fact.
const (
	AuctionStatusScheduled = "scheduled"
	AuctionStatusOpen      = "open"
	AuctionStatusClosed    = "closed" // past end, not yet settled
	AuctionStatusSettled   = "settled"
)

type Bid struct {
	Bidder   Address         `json:"bidder"`
	Amount   decimal.Decimal `json:"amount"`
	PlacedAt time.Time       `json:"placed_at"`
}

type Auction struct {
	AssetID       uint64          `json:"asset_id"`
	Seller        Address         `json:"seller"`
	MinBid        decimal.Decimal `json:"min_bid"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	HighestBidder Address         `json:"highest_bidder,omitempty"`
	HighestBid    decimal.Decimal `json:"highest_bid"`
	Bids          []Bid           `json:"bids"` // append-only, in acceptance order
	FinalPrice    decimal.Decimal `json:"final_price"`
	Settled       bool            `json:"settled"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StatusAt derives the auction state at the given instant.
func (a *Auction) StatusAt(now time.Time) string {
	switch {
	case a.Settled:
		return AuctionStatusSettled
	case now.Before(a.StartTime):
		return AuctionStatusScheduled
	case now.After(a.EndTime):
		return AuctionStatusClosed
	default:
		return AuctionStatusOpen
	}
}

// OpenAt reports whether bids are accepted at the given instant.
// The window is inclusive on both ends.
func (a *Auction) OpenAt(now time.Time) bool {
	return a.StatusAt(now) == AuctionStatusOpen
}

// HasBid reports whether any bid has been accepted.
func (a *Auction) HasBid() bool {
	return a.HighestBidder != ZeroAddress
}
