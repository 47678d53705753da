// Package audithook bridges stakeledger events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import any
// audit backend directly. Callers inject a RecorderFunc adapter at wiring
// time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/plugin"
	"github.com/xraph/stakeledger/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnInit              = (*Extension)(nil)
	_ plugin.OnShutdown          = (*Extension)(nil)
	_ plugin.OnStaked            = (*Extension)(nil)
	_ plugin.OnWithdrawn         = (*Extension)(nil)
	_ plugin.OnRewardPaid        = (*Extension)(nil)
	_ plugin.OnRewardAdded       = (*Extension)(nil)
	_ plugin.OnRewardRateUpdated = (*Extension)(nil)
	_ plugin.OnAssetRecovered    = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges ledger events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit implements plugin.OnInit.
func (e *Extension) OnInit(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionLedgerStarted, SeverityInfo, OutcomeSuccess,
		ResourceLedger, "", CategoryLifecycle, nil,
	)
}

// OnShutdown implements plugin.OnShutdown.
func (e *Extension) OnShutdown(ctx context.Context) error {
	return e.record(ctx, ActionLedgerStopped, SeverityInfo, OutcomeSuccess,
		ResourceLedger, "", CategoryLifecycle, nil,
	)
}

// ──────────────────────────────────────────────────
// Principal hooks
// ──────────────────────────────────────────────────

// OnStaked implements plugin.OnStaked.
func (e *Extension) OnStaked(ctx context.Context, accountID id.AccountID, amount types.Amount) error {
	return e.record(ctx, ActionStaked, SeverityInfo, OutcomeSuccess,
		ResourceAccount, accountID.String(), CategoryStaking, nil,
		"amount", amount.String(),
	)
}

// OnWithdrawn implements plugin.OnWithdrawn.
func (e *Extension) OnWithdrawn(ctx context.Context, accountID id.AccountID, amount types.Amount) error {
	return e.record(ctx, ActionWithdrawn, SeverityInfo, OutcomeSuccess,
		ResourceAccount, accountID.String(), CategoryStaking, nil,
		"amount", amount.String(),
	)
}

// ──────────────────────────────────────────────────
// Reward hooks
// ──────────────────────────────────────────────────

// OnRewardPaid implements plugin.OnRewardPaid.
func (e *Extension) OnRewardPaid(ctx context.Context, accountID id.AccountID, amount types.Amount) error {
	return e.record(ctx, ActionRewardPaid, SeverityInfo, OutcomeSuccess,
		ResourceAccount, accountID.String(), CategoryRewards, nil,
		"amount", amount.String(),
	)
}

// OnRewardAdded implements plugin.OnRewardAdded.
func (e *Extension) OnRewardAdded(ctx context.Context, amount types.Amount) error {
	return e.record(ctx, ActionRewardAdded, SeverityInfo, OutcomeSuccess,
		ResourcePool, "", CategoryRewards, nil,
		"amount", amount.String(),
	)
}

// OnRewardRateUpdated implements plugin.OnRewardRateUpdated.
func (e *Extension) OnRewardRateUpdated(ctx context.Context, rate types.Amount) error {
	return e.record(ctx, ActionRewardRateUpdated, SeverityInfo, OutcomeSuccess,
		ResourcePool, "", CategoryRewards, nil,
		"rate", rate.String(),
	)
}

// ──────────────────────────────────────────────────
// Admin hooks
// ──────────────────────────────────────────────────

// OnAssetRecovered implements plugin.OnAssetRecovered. Recoveries move funds
// out of custody on an admin's say-so, so they are recorded as warnings.
func (e *Extension) OnAssetRecovered(ctx context.Context, assetID id.AssetID, recipient id.AccountID, amount types.Amount) error {
	return e.record(ctx, ActionAssetRecovered, SeverityWarning, OutcomeSuccess,
		ResourceAsset, assetID.String(), CategoryAdmin, nil,
		"recipient", recipient.String(),
		"amount", amount.String(),
	)
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
