package extension

import (
	"time"

	"github.com/xraph/stakeledger"
	"github.com/xraph/stakeledger/custody"
	"github.com/xraph/stakeledger/plugin"
	"github.com/xraph/stakeledger/store"
)

// Option configures the stakeledger Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithCustody sets the custody the ledger moves funds through.
func WithCustody(c custody.Custody) Option {
	return func(e *Extension) {
		e.custody = c
	}
}

// WithLedgerOption passes a stakeledger.Option through to the underlying ledger.
func WithLedgerOption(opt stakeledger.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, stakeledger.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithAssets sets the stake and reward asset TypeIDs.
func WithAssets(stake, reward string) Option {
	return func(e *Extension) {
		e.config.StakeAsset = stake
		e.config.RewardAsset = reward
	}
}

// WithAdmins adds account TypeIDs to the admin set.
func WithAdmins(accounts ...string) Option {
	return func(e *Extension) {
		e.config.Admins = append(e.config.Admins, accounts...)
	}
}

// WithCustodian sets the holding account of the default in-memory vault.
func WithCustodian(account string) Option {
	return func(e *Extension) { e.config.Custodian = account }
}

// WithMinStakingPeriod sets how long principal stays locked.
func WithMinStakingPeriod(d time.Duration) Option {
	return func(e *Extension) { e.config.MinStakingPeriod = d }
}

// WithRewardDuration sets the length of each reward period.
func WithRewardDuration(d time.Duration) Option {
	return func(e *Extension) { e.config.RewardDuration = d }
}
