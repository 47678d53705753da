package extension

import "time"

// Config holds the stakeledger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.stakeledger" or "stakeledger" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// StakeAsset is the TypeID of the asset participants stake.
	StakeAsset string `json:"stake_asset" mapstructure:"stake_asset" yaml:"stake_asset"`

	// RewardAsset is the TypeID of the asset paid out as rewards.
	RewardAsset string `json:"reward_asset" mapstructure:"reward_asset" yaml:"reward_asset"`

	// Admins lists the account TypeIDs allowed to fund rewards, change the
	// reward rate and recover stray assets.
	Admins []string `json:"admins" mapstructure:"admins" yaml:"admins"`

	// Custodian is the account that holds funds for the default in-memory
	// vault. Ignored when a custody implementation is supplied.
	Custodian string `json:"custodian" mapstructure:"custodian" yaml:"custodian"`

	// MinStakingPeriod is how long principal stays locked after the first
	// stake (default: 7 days).
	MinStakingPeriod time.Duration `json:"min_staking_period" mapstructure:"min_staking_period" yaml:"min_staking_period"`

	// RewardDuration is the length of every reward period (default: 7 days).
	RewardDuration time.Duration `json:"reward_duration" mapstructure:"reward_duration" yaml:"reward_duration"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinStakingPeriod: 7 * 24 * time.Hour,
		RewardDuration:   7 * 24 * time.Hour,
	}
}
