// Package memory provides an in-memory custody.Custody implementation.
// It is intended for tests, simulations and single-process deployments
// where the ledger is also the book of record for asset balances.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/stakeledger"
	"github.com/xraph/stakeledger/custody"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/types"
)

// compile-time interface check
var _ custody.Custody = (*Vault)(nil)

// Vault is a multi-asset balance book. Funds transferred in are credited to
// the custodian holder, which represents the ledger itself.
type Vault struct {
	mu sync.RWMutex

	custodian id.AccountID
	balances  map[string]map[string]types.Amount // asset -> holder -> balance
	frozen    map[string]bool
}

// New creates a Vault whose custody balances belong to custodian.
func New(custodian id.AccountID) *Vault {
	return &Vault{
		custodian: custodian,
		balances:  make(map[string]map[string]types.Amount),
		frozen:    make(map[string]bool),
	}
}

// Custodian returns the holder that owns funds in custody.
func (v *Vault) Custodian() id.AccountID { return v.custodian }

// Mint credits amount of asset to holder out of thin air.
func (v *Vault) Mint(asset id.AssetID, holder id.AccountID, amount types.Amount) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.credit(asset, holder, amount)
}

// Freeze makes every transfer of asset fail with ErrTransferRejected,
// mimicking a paused token.
func (v *Vault) Freeze(asset id.AssetID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frozen[asset.String()] = true
}

// Unfreeze lifts a Freeze.
func (v *Vault) Unfreeze(asset id.AssetID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.frozen, asset.String())
}

// TransferIn implements custody.Custody.
func (v *Vault) TransferIn(_ context.Context, asset id.AssetID, from id.AccountID, amount types.Amount) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.frozen[asset.String()] {
		return fmt.Errorf("custody: transfer in of %s: %w", asset, stakeledger.ErrTransferRejected)
	}
	return v.move(asset, from, v.custodian, amount, stakeledger.ErrInsufficientFunds)
}

// TransferOut implements custody.Custody.
func (v *Vault) TransferOut(_ context.Context, asset id.AssetID, to id.AccountID, amount types.Amount) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.frozen[asset.String()] {
		return fmt.Errorf("custody: transfer out of %s: %w", asset, stakeledger.ErrTransferRejected)
	}
	return v.move(asset, v.custodian, to, amount, stakeledger.ErrTransferRejected)
}

// BalanceOf implements custody.Custody.
func (v *Vault) BalanceOf(_ context.Context, asset id.AssetID, holder id.AccountID) (types.Amount, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.balances[asset.String()][holder.String()], nil
}

// move must be called with mu held. Both balances are computed before
// either is written, so a failed transfer changes nothing.
func (v *Vault) move(asset id.AssetID, from, to id.AccountID, amount types.Amount, short error) error {
	book := v.book(asset)
	current := book[from.String()]
	debited, err := current.Sub(amount)
	if err != nil {
		return fmt.Errorf("custody: %s holds %s of %s, needs %s: %w", from, current, asset, amount, short)
	}
	if from.String() == to.String() {
		return nil
	}
	credited, err := book[to.String()].Add(amount)
	if err != nil {
		return fmt.Errorf("custody: credit %s of %s to %s: %w", amount, asset, to, err)
	}
	book[from.String()] = debited
	book[to.String()] = credited
	return nil
}

func (v *Vault) credit(asset id.AssetID, holder id.AccountID, amount types.Amount) error {
	book := v.book(asset)
	next, err := book[holder.String()].Add(amount)
	if err != nil {
		return fmt.Errorf("custody: credit %s of %s to %s: %w", amount, asset, holder, err)
	}
	book[holder.String()] = next
	return nil
}

func (v *Vault) book(asset id.AssetID) map[string]types.Amount {
	book, ok := v.balances[asset.String()]
	if !ok {
		book = make(map[string]types.Amount)
		v.balances[asset.String()] = book
	}
	return book
}
