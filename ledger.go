package stakeledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/stakeledger/access"
	"github.com/xraph/stakeledger/clock"
	"github.com/xraph/stakeledger/custody"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/plugin"
	"github.com/xraph/stakeledger/pool"
	"github.com/xraph/stakeledger/store"
)

const (
	// DefaultMinStakingPeriod is the lock applied to withdrawals and exits.
	DefaultMinStakingPeriod = 7 * 24 * time.Hour

	// DefaultRewardDuration is the length of a reward emission period.
	DefaultRewardDuration = 7 * 24 * time.Hour
)

// Ledger is the time-weighted staking engine. It holds principal on behalf
// of accounts through a custody collaborator and distributes a reward
// stream pro rata to stake-seconds.
type Ledger struct {
	mu sync.RWMutex

	store   store.Store
	custody custody.Custody
	access  access.Controller
	clock   clock.Clock
	plugins *plugin.Registry
	logger  *slog.Logger

	// Configuration
	stakeAsset       id.AssetID
	rewardAsset      id.AssetID
	minStakingPeriod time.Duration
	rewardDuration   time.Duration
	skipMigrate      bool

	// Committed accounting state, replaced wholesale after each commit.
	state   pool.State
	started bool
}

// New creates a new Ledger instance. WithAssets is required before Start.
func New(s store.Store, c custody.Custody, opts ...Option) *Ledger {
	l := &Ledger{
		store:            s,
		custody:          c,
		access:           access.DenyAll,
		clock:            clock.System,
		plugins:          plugin.NewRegistry(),
		logger:           slog.Default(),
		minStakingPeriod: DefaultMinStakingPeriod,
		rewardDuration:   DefaultRewardDuration,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithPluginTimeout bounds each plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.plugins.WithTimeout(d)
	}
}

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(l *Ledger) {
		l.clock = c
	}
}

// WithAccess sets the controller consulted by admin operations.
func WithAccess(c access.Controller) Option {
	return func(l *Ledger) {
		l.access = c
	}
}

// WithAssets sets the stake and reward assets. They may be the same asset.
func WithAssets(stake, reward id.AssetID) Option {
	return func(l *Ledger) {
		l.stakeAsset = stake
		l.rewardAsset = reward
	}
}

// WithMinStakingPeriod sets the withdrawal lock. Sub-second precision is
// truncated.
func WithMinStakingPeriod(d time.Duration) Option {
	return func(l *Ledger) {
		l.minStakingPeriod = d.Truncate(time.Second)
	}
}

// WithRewardDuration sets the emission period length. Sub-second
// precision is truncated.
func WithRewardDuration(d time.Duration) Option {
	return func(l *Ledger) {
		l.rewardDuration = d.Truncate(time.Second)
	}
}

// WithoutMigrate makes Start skip store migration, for hosts that manage
// the schema themselves.
func WithoutMigrate() Option {
	return func(l *Ledger) {
		l.skipMigrate = true
	}
}

// Start migrates the store and loads the committed accounting state.
func (l *Ledger) Start(ctx context.Context) error {
	if l.stakeAsset.IsNil() || l.rewardAsset.IsNil() {
		return fmt.Errorf("%w: stake and reward assets are required", ErrNotConfigured)
	}
	if l.store == nil || l.custody == nil {
		return fmt.Errorf("%w: store and custody are required", ErrNotConfigured)
	}
	if l.rewardDuration < time.Second {
		return ValidationError{Field: "reward_duration", Message: "must be at least one second"}
	}
	if l.minStakingPeriod < 0 {
		return ValidationError{Field: "min_staking_period", Message: "must not be negative"}
	}

	if !l.skipMigrate {
		if err := l.store.Migrate(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
		}
	}

	st, err := l.store.GetState(ctx)
	switch {
	case IsNotFound(err):
		st = &pool.State{}
	case err != nil:
		return fmt.Errorf("stakeledger: load state: %w", err)
	}

	l.mu.Lock()
	l.state = *st
	l.started = true
	l.mu.Unlock()

	// Initialize plugins
	l.plugins.EmitInit(ctx, l)

	l.logger.Info("stakeledger started",
		"stake_asset", l.stakeAsset,
		"reward_asset", l.rewardAsset,
		"min_staking_period", l.minStakingPeriod,
		"reward_duration", l.rewardDuration,
		"total_staked", st.TotalStaked,
	)

	return nil
}

// Stop shuts down the Ledger and closes its store.
func (l *Ledger) Stop() error {
	l.mu.Lock()
	l.started = false
	l.mu.Unlock()

	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	l.logger.Info("stakeledger stopped")
	return l.store.Close()
}

// StakeAsset returns the asset accepted as principal.
func (l *Ledger) StakeAsset() id.AssetID { return l.stakeAsset }

// RewardAsset returns the asset paid out as reward.
func (l *Ledger) RewardAsset() id.AssetID { return l.rewardAsset }

// MinStakingPeriod returns the configured withdrawal lock.
func (l *Ledger) MinStakingPeriod() time.Duration { return l.minStakingPeriod }

// RewardDuration returns the configured emission period length.
func (l *Ledger) RewardDuration() time.Duration { return l.rewardDuration }

// Plugins returns the plugin registry.
func (l *Ledger) Plugins() *plugin.Registry { return l.plugins }

// Store returns the underlying store.
func (l *Ledger) Store() store.Store { return l.store }
