// Package plugin provides an extensible plugin system for stakeledger.
// Plugins can hook into ledger lifecycle events to extend functionality.
// Hooks run after an operation has committed; their errors are logged and
// never roll the operation back.
package plugin

import (
	"context"

	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the ledger starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the ledger stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Principal hooks
// ──────────────────────────────────────────────────

// OnStaked is called after an account deposits principal.
type OnStaked interface {
	Plugin
	OnStaked(ctx context.Context, accountID id.AccountID, amount types.Amount) error
}

// OnWithdrawn is called after principal is returned to an account.
type OnWithdrawn interface {
	Plugin
	OnWithdrawn(ctx context.Context, accountID id.AccountID, amount types.Amount) error
}

// ──────────────────────────────────────────────────
// Reward hooks
// ──────────────────────────────────────────────────

// OnRewardPaid is called after accrued reward is transferred to an account.
type OnRewardPaid interface {
	Plugin
	OnRewardPaid(ctx context.Context, accountID id.AccountID, amount types.Amount) error
}

// OnRewardAdded is called after a reward period is funded.
type OnRewardAdded interface {
	Plugin
	OnRewardAdded(ctx context.Context, amount types.Amount) error
}

// OnRewardRateUpdated is called whenever the per-second reward rate changes.
type OnRewardRateUpdated interface {
	Plugin
	OnRewardRateUpdated(ctx context.Context, rate types.Amount) error
}

// ──────────────────────────────────────────────────
// Admin hooks
// ──────────────────────────────────────────────────

// OnAssetRecovered is called after an admin recovers a foreign asset.
type OnAssetRecovered interface {
	Plugin
	OnAssetRecovered(ctx context.Context, assetID id.AssetID, recipient id.AccountID, amount types.Amount) error
}
