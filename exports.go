package stakeledger

import "github.com/xraph/stakeledger/types"

// Re-export common types for convenience so users don't have to import types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Amount constructors
var (
	NewAmount       = types.NewAmount
	ParseAmount     = types.ParseAmount
	MustParseAmount = types.MustParseAmount
	Zero            = types.Zero
	Sum             = types.Sum
)

// Precision is the fixed-point scale of the reward-per-stake-unit accumulator.
var Precision = types.Precision

// Re-export Entity constructor
var NewEntity = types.NewEntity
