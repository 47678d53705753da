package stakeledger

import "github.com/xraph/stakeledger/id"

// ID is the primary identifier type for all stakeledger entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix

// Identifier aliases so callers can stay within the root package.
type (
	AccountID = id.AccountID
	AssetID   = id.AssetID
	EventID   = id.EventID
)

var (
	NewAccountID = id.NewAccountID
	NewAssetID   = id.NewAssetID
)
