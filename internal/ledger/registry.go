// Package ledger provides in-memory reference implementations of the two
// external collaborators the engine settles against: the asset-ownership
// registry and the fungible payment ledger. Production deployments swap these
// for clients of the real systems; tests and the standalone server use them
// directly.
package ledger

import (
	"errors"
	"sync"

	"github.com/asset-exchange/backend/internal/models"
)

var (
	ErrUnknownAsset = errors.New("ledger: unknown asset")
	ErrAssetExists  = errors.New("ledger: asset already minted")
	ErrNotOwner     = errors.New("ledger: transfer from non-owner")
)

// Registry is an in-memory asset-ownership record: one current owner per asset.
type Registry struct {
	mu     sync.RWMutex
	owners map[uint64]models.Address
}

func NewRegistry() *Registry {
	return &Registry{owners: make(map[uint64]models.Address)}
}

func (r *Registry) OwnerOf(assetID uint64) (models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[assetID]
	if !ok {
		return models.ZeroAddress, ErrUnknownAsset
	}
	return owner, nil
}

func (r *Registry) Mint(owner models.Address, assetID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[assetID]; ok {
		return ErrAssetExists
	}
	r.owners[assetID] = owner
	return nil
}

// Transfer moves ownership. Fails if from is not the current owner.
func (r *Registry) Transfer(from, to models.Address, assetID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[assetID]
	if !ok {
		return ErrUnknownAsset
	}
	if owner != from {
		return ErrNotOwner
	}
	r.owners[assetID] = to
	return nil
}
