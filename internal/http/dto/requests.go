package dto

import "time"

type IssueTokenRequest struct {
	Address string `json:"address"`
	Secret  string `json:"secret,omitempty"`
}

type MintAssetRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

type ListAssetRequest struct {
	Price string `json:"price"` // numeric as string
}

type CreateAuctionRequest struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	MinBid string    `json:"min_bid"` // numeric as string
}

type PlaceBidRequest struct {
	Amount string `json:"amount"` // numeric as string
}
