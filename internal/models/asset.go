package models

import "time"

// Address identifies an account on the payment ledger and asset registry.
// The registry and ledger are external systems; the backend treats addresses
// as opaque strings.
type Address string

const ZeroAddress Address = ""

type Asset struct {
	ID          uint64    `json:"id"`
	Creator     Address   `json:"creator"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	MintedAt    time.Time `json:"minted_at"`
}
