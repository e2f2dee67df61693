package dto

type AuthResponse struct {
	Token   string `json:"token"`
	Address string `json:"address"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type MintAssetResponse struct {
	AssetID uint64 `json:"asset_id"`
}

// ListedEntry is one row of the historical ever-listed index. The index is
// append-only and never compacted, so Active tells callers whether the id is
// still purchasable.
type ListedEntry struct {
	AssetID uint64 `json:"asset_id"`
	Active  bool   `json:"active"`
	Price   string `json:"price,omitempty"`
}

type WithdrawResponse struct {
	Amount string `json:"amount"`
}

type EscrowBalanceResponse struct {
	Address string `json:"address"`
	Pending string `json:"pending"`
}
