// Package custody defines the asset-custody collaborator a ledger moves
// stake and reward balances through.
//
// The ledger never implements transfer semantics itself. A Custody
// implementation is bound to one ledger: TransferIn moves funds from a
// participant into the ledger's custody and TransferOut moves them back out.
// Implementations must be atomic per call: a failed transfer moves nothing.
package custody

import (
	"context"

	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/types"
)

// Custody moves fungible balances in and out of a ledger's custody.
//
// TransferIn fails with an error matching stakeledger.ErrInsufficientFunds
// when from cannot cover amount, or stakeledger.ErrTransferRejected for any
// other refusal. TransferOut fails with stakeledger.ErrTransferRejected.
type Custody interface {
	TransferIn(ctx context.Context, asset id.AssetID, from id.AccountID, amount types.Amount) error
	TransferOut(ctx context.Context, asset id.AssetID, to id.AccountID, amount types.Amount) error
	BalanceOf(ctx context.Context, asset id.AssetID, holder id.AccountID) (types.Amount, error)
}
