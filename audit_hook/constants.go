package audithook

// Action constants for audit events.
const (
	// Lifecycle actions
	ActionLedgerStarted = "ledger.started"
	ActionLedgerStopped = "ledger.stopped"

	// Principal actions
	ActionStaked    = "stake.deposited"
	ActionWithdrawn = "stake.withdrawn"

	// Reward actions
	ActionRewardPaid        = "reward.paid"
	ActionRewardAdded       = "reward.added"
	ActionRewardRateUpdated = "reward_rate.updated"

	// Admin actions
	ActionAssetRecovered = "asset.recovered"
)

// Resource constants for audit events.
const (
	ResourceLedger  = "ledger"
	ResourceAccount = "account"
	ResourcePool    = "reward_pool"
	ResourceAsset   = "asset"
)

// Category constants for audit events.
const (
	CategoryLifecycle = "lifecycle"
	CategoryStaking   = "staking"
	CategoryRewards   = "rewards"
	CategoryAdmin     = "admin"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
