// Package extension provides the Forge extension adapter for stakeledger.
//
// It implements the forge.Extension interface to integrate the staking
// ledger into a Forge application with DI registration and lifecycle
// management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.stakeledger" or
// "stakeledger" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/stakeledger"
	"github.com/xraph/stakeledger/access"
	"github.com/xraph/stakeledger/custody"
	custodymem "github.com/xraph/stakeledger/custody/memory"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/store"
	"github.com/xraph/stakeledger/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "stakeledger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Time-weighted staking reward ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts stakeledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *stakeledger.Ledger
	store      store.Store
	custody    custody.Custody
	admins     *access.Admins
	ledgerOpts []stakeledger.Option
}

// New creates a new stakeledger Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying ledger.
// This is nil until Register is called.
func (e *Extension) Engine() *stakeledger.Ledger { return e.engine }

// Admins returns the admin set built from configuration, so hosts can
// grant or revoke at runtime. It is nil until Register is called.
func (e *Extension) Admins() *access.Admins { return e.admins }

// Register implements [forge.Extension]. It loads configuration,
// builds the ledger, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	opts, err := e.buildLedgerOpts()
	if err != nil {
		return err
	}

	e.engine = stakeledger.New(e.store, e.custody, opts...)

	return vessel.Provide(fapp.Container(), func() (*stakeledger.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("stakeledger: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("stakeledger: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedgerOpts constructs stakeledger.Option values from the resolved
// config, filling in the default custody when none was supplied.
func (e *Extension) buildLedgerOpts() ([]stakeledger.Option, error) {
	stake, err := id.ParseAssetID(e.config.StakeAsset)
	if err != nil {
		return nil, fmt.Errorf("stakeledger: stake_asset: %w", err)
	}
	reward, err := id.ParseAssetID(e.config.RewardAsset)
	if err != nil {
		return nil, fmt.Errorf("stakeledger: reward_asset: %w", err)
	}

	admins := make([]id.AccountID, 0, len(e.config.Admins))
	for _, s := range e.config.Admins {
		acct, err := id.ParseAccountID(s)
		if err != nil {
			return nil, fmt.Errorf("stakeledger: admin %q: %w", s, err)
		}
		admins = append(admins, acct)
	}
	e.admins = access.NewAdmins(admins...)

	if e.custody == nil {
		custodian := id.NewAccountID()
		if e.config.Custodian != "" {
			if custodian, err = id.ParseAccountID(e.config.Custodian); err != nil {
				return nil, fmt.Errorf("stakeledger: custodian: %w", err)
			}
		}
		e.custody = custodymem.New(custodian)
	}

	opts := make([]stakeledger.Option, 0, len(e.ledgerOpts)+5)
	opts = append(opts,
		stakeledger.WithAssets(stake, reward),
		stakeledger.WithAccess(e.admins),
		stakeledger.WithMinStakingPeriod(e.config.MinStakingPeriod),
		stakeledger.WithRewardDuration(e.config.RewardDuration),
	)
	if e.config.DisableMigrate {
		opts = append(opts, stakeledger.WithoutMigrate())
	}

	// Pass-through options go last so they win over config.
	opts = append(opts, e.ledgerOpts...)

	return opts, nil
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("stakeledger: configuration is required but not found in config files; " +
				"ensure 'extensions.stakeledger' or 'stakeledger' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("stakeledger: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("stake_asset", e.config.StakeAsset),
		forge.F("reward_asset", e.config.RewardAsset),
		forge.F("admins", len(e.config.Admins)),
		forge.F("min_staking_period", e.config.MinStakingPeriod),
		forge.F("reward_duration", e.config.RewardDuration),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.stakeledger" first (namespaced pattern).
	if cm.IsSet("extensions.stakeledger") {
		if err := cm.Bind("extensions.stakeledger", &cfg); err == nil {
			e.Logger().Debug("stakeledger: loaded config from file",
				forge.F("key", "extensions.stakeledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("stakeledger: failed to bind extensions.stakeledger config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "stakeledger" key.
	if cm.IsSet("stakeledger") {
		if err := cm.Bind("stakeledger", &cfg); err == nil {
			e.Logger().Debug("stakeledger: loaded config from file",
				forge.F("key", "stakeledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("stakeledger: failed to bind stakeledger config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.MinStakingPeriod == 0 {
		cfg.MinStakingPeriod = defaults.MinStakingPeriod
	}
	if cfg.RewardDuration == 0 {
		cfg.RewardDuration = defaults.RewardDuration
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.StakeAsset == "" {
		yamlConfig.StakeAsset = programmaticConfig.StakeAsset
	}
	if yamlConfig.RewardAsset == "" {
		yamlConfig.RewardAsset = programmaticConfig.RewardAsset
	}
	if yamlConfig.Custodian == "" {
		yamlConfig.Custodian = programmaticConfig.Custodian
	}

	// Admin lists are additive.
	yamlConfig.Admins = append(yamlConfig.Admins, programmaticConfig.Admins...)

	// Durations: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.MinStakingPeriod == 0 {
		yamlConfig.MinStakingPeriod = programmaticConfig.MinStakingPeriod
	}
	if yamlConfig.RewardDuration == 0 {
		yamlConfig.RewardDuration = programmaticConfig.RewardDuration
	}

	// Fill remaining zeros with defaults.
	return mergeWithDefaults(yamlConfig)
}
