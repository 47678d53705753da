package pool

import "context"

type Store interface {
	// GetState returns the persisted state, or an error matching
	// stakeledger.ErrStateNotFound if none was ever committed.
	GetState(ctx context.Context) (*State, error)
}
