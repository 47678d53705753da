package account

import (
	"context"

	"github.com/xraph/stakeledger/id"
)

type Store interface {
	GetAccount(ctx context.Context, accountID id.AccountID) (*Account, error)
	ListAccounts(ctx context.Context, opts ListOpts) ([]*Account, error)
}

type ListOpts struct {
	// ActiveOnly restricts the listing to accounts with non-zero principal.
	ActiveOnly bool
	Limit      int
	Offset     int
}
