package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is an owner's standing offer to sell an asset at a fixed price.
// Price is immutable while the listing is active; buy() deactivates it.
type Listing struct {
	AssetID  uint64          `json:"asset_id"`
	Seller   Address         `json:"seller"`
	Price    decimal.Decimal `json:"price"`
	Active   bool            `json:"active"`
	ListedAt time.Time       `json:"listed_at"`
}
