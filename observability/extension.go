// Package observability provides a metrics extension for stakeledger that
// records event counts and amounts through a MetricFactory.
package observability

import (
	"context"
	"strconv"

	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/plugin"
	"github.com/xraph/stakeledger/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnInit              = (*MetricsExtension)(nil)
	_ plugin.OnShutdown          = (*MetricsExtension)(nil)
	_ plugin.OnStaked            = (*MetricsExtension)(nil)
	_ plugin.OnWithdrawn         = (*MetricsExtension)(nil)
	_ plugin.OnRewardPaid        = (*MetricsExtension)(nil)
	_ plugin.OnRewardAdded       = (*MetricsExtension)(nil)
	_ plugin.OnRewardRateUpdated = (*MetricsExtension)(nil)
	_ plugin.OnAssetRecovered    = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records ledger-wide staking metrics.
// Register it as a stakeledger plugin to track them automatically.
type MetricsExtension struct {
	factory MetricFactory

	// Lifecycle metrics
	Started Counter
	Stopped Counter

	// Principal metrics
	Stakes          Counter
	Withdrawals     Counter
	StakeAmount     Histogram
	WithdrawnAmount Histogram

	// Reward metrics
	RewardsPaid       Counter
	RewardPaidAmount  Histogram
	RewardsAdded      Counter
	RewardAddedAmount Histogram
	RateUpdates       Counter
	RewardRate        Histogram

	// Admin metrics
	Recoveries Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Lifecycle metrics
		Started: factory.Counter("stakeledger.started"),
		Stopped: factory.Counter("stakeledger.stopped"),

		// Principal metrics
		Stakes:          factory.Counter("stakeledger.stake.count"),
		Withdrawals:     factory.Counter("stakeledger.withdraw.count"),
		StakeAmount:     factory.Histogram("stakeledger.stake.amount"),
		WithdrawnAmount: factory.Histogram("stakeledger.withdraw.amount"),

		// Reward metrics
		RewardsPaid:       factory.Counter("stakeledger.reward.paid.count"),
		RewardPaidAmount:  factory.Histogram("stakeledger.reward.paid.amount"),
		RewardsAdded:      factory.Counter("stakeledger.reward.added.count"),
		RewardAddedAmount: factory.Histogram("stakeledger.reward.added.amount"),
		RateUpdates:       factory.Counter("stakeledger.reward_rate.updates"),
		RewardRate:        factory.Histogram("stakeledger.reward_rate.value"),

		// Admin metrics
		Recoveries: factory.Counter("stakeledger.asset.recovered"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	m.Started.Inc()
	return nil
}

// OnShutdown implements plugin.OnShutdown.
func (m *MetricsExtension) OnShutdown(_ context.Context) error {
	m.Stopped.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Principal hooks
// ──────────────────────────────────────────────────

// OnStaked implements plugin.OnStaked.
func (m *MetricsExtension) OnStaked(_ context.Context, _ id.AccountID, amount types.Amount) error {
	m.Stakes.Inc()
	m.StakeAmount.Observe(approx(amount))
	return nil
}

// OnWithdrawn implements plugin.OnWithdrawn.
func (m *MetricsExtension) OnWithdrawn(_ context.Context, _ id.AccountID, amount types.Amount) error {
	m.Withdrawals.Inc()
	m.WithdrawnAmount.Observe(approx(amount))
	return nil
}

// ──────────────────────────────────────────────────
// Reward hooks
// ──────────────────────────────────────────────────

// OnRewardPaid implements plugin.OnRewardPaid.
func (m *MetricsExtension) OnRewardPaid(_ context.Context, _ id.AccountID, amount types.Amount) error {
	m.RewardsPaid.Inc()
	m.RewardPaidAmount.Observe(approx(amount))
	return nil
}

// OnRewardAdded implements plugin.OnRewardAdded.
func (m *MetricsExtension) OnRewardAdded(_ context.Context, amount types.Amount) error {
	m.RewardsAdded.Inc()
	m.RewardAddedAmount.Observe(approx(amount))
	return nil
}

// OnRewardRateUpdated implements plugin.OnRewardRateUpdated.
func (m *MetricsExtension) OnRewardRateUpdated(_ context.Context, rate types.Amount) error {
	m.RateUpdates.Inc()
	m.RewardRate.Observe(approx(rate))
	return nil
}

// OnAssetRecovered implements plugin.OnAssetRecovered.
func (m *MetricsExtension) OnAssetRecovered(_ context.Context, _ id.AssetID, _ id.AccountID, _ types.Amount) error {
	m.Recoveries.Inc()
	return nil
}

// approx converts an amount to float64 for metrics. Precision loss above
// 2^53 is acceptable here; accounting never reads these values back.
func approx(a types.Amount) float64 {
	if v, ok := a.Uint64(); ok {
		return float64(v)
	}
	f, err := strconv.ParseFloat(a.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
