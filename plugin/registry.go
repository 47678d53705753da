package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/types"
)

// DefaultTimeout bounds a single plugin hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit              []OnInit
	onShutdown          []OnShutdown
	onStaked            []OnStaked
	onWithdrawn         []OnWithdrawn
	onRewardPaid        []OnRewardPaid
	onRewardAdded       []OnRewardAdded
	onRewardRateUpdated []OnRewardRateUpdated
	onAssetRecovered    []OnAssetRecovered
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	var interfaces []string
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
		interfaces = append(interfaces, "OnInit")
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
		interfaces = append(interfaces, "OnShutdown")
	}
	if v, ok := p.(OnStaked); ok {
		r.onStaked = append(r.onStaked, v)
		interfaces = append(interfaces, "OnStaked")
	}
	if v, ok := p.(OnWithdrawn); ok {
		r.onWithdrawn = append(r.onWithdrawn, v)
		interfaces = append(interfaces, "OnWithdrawn")
	}
	if v, ok := p.(OnRewardPaid); ok {
		r.onRewardPaid = append(r.onRewardPaid, v)
		interfaces = append(interfaces, "OnRewardPaid")
	}
	if v, ok := p.(OnRewardAdded); ok {
		r.onRewardAdded = append(r.onRewardAdded, v)
		interfaces = append(interfaces, "OnRewardAdded")
	}
	if v, ok := p.(OnRewardRateUpdated); ok {
		r.onRewardRateUpdated = append(r.onRewardRateUpdated, v)
		interfaces = append(interfaces, "OnRewardRateUpdated")
	}
	if v, ok := p.(OnAssetRecovered); ok {
		r.onAssetRecovered = append(r.onAssetRecovered, v)
		interfaces = append(interfaces, "OnAssetRecovered")
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", interfaces,
	)

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		r.call(ctx, p.Name(), "OnInit", func() error {
			return p.OnInit(ctx, ledger)
		})
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		r.call(ctx, p.Name(), "OnShutdown", func() error {
			return p.OnShutdown(ctx)
		})
	}
}

// EmitStaked calls OnStaked for all plugins that implement it.
func (r *Registry) EmitStaked(ctx context.Context, accountID id.AccountID, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onStaked
	r.mu.RUnlock()

	for _, p := range plugins {
		r.call(ctx, p.Name(), "OnStaked", func() error {
			return p.OnStaked(ctx, accountID, amount)
		})
	}
}

// EmitWithdrawn calls OnWithdrawn for all plugins that implement it.
func (r *Registry) EmitWithdrawn(ctx context.Context, accountID id.AccountID, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onWithdrawn
	r.mu.RUnlock()

	for _, p := range plugins {
		r.call(ctx, p.Name(), "OnWithdrawn", func() error {
			return p.OnWithdrawn(ctx, accountID, amount)
		})
	}
}

// EmitRewardPaid calls OnRewardPaid for all plugins that implement it.
func (r *Registry) EmitRewardPaid(ctx context.Context, accountID id.AccountID, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onRewardPaid
	r.mu.RUnlock()

	for _, p := range plugins {
		r.call(ctx, p.Name(), "OnRewardPaid", func() error {
			return p.OnRewardPaid(ctx, accountID, amount)
		})
	}
}

// EmitRewardAdded calls OnRewardAdded for all plugins that implement it.
func (r *Registry) EmitRewardAdded(ctx context.Context, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onRewardAdded
	r.mu.RUnlock()

	for _, p := range plugins {
		r.call(ctx, p.Name(), "OnRewardAdded", func() error {
			return p.OnRewardAdded(ctx, amount)
		})
	}
}

// EmitRewardRateUpdated calls OnRewardRateUpdated for all plugins that implement it.
func (r *Registry) EmitRewardRateUpdated(ctx context.Context, rate types.Amount) {
	r.mu.RLock()
	plugins := r.onRewardRateUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		r.call(ctx, p.Name(), "OnRewardRateUpdated", func() error {
			return p.OnRewardRateUpdated(ctx, rate)
		})
	}
}

// EmitAssetRecovered calls OnAssetRecovered for all plugins that implement it.
func (r *Registry) EmitAssetRecovered(ctx context.Context, assetID id.AssetID, recipient id.AccountID, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onAssetRecovered
	r.mu.RUnlock()

	for _, p := range plugins {
		r.call(ctx, p.Name(), "OnAssetRecovered", func() error {
			return p.OnAssetRecovered(ctx, assetID, recipient, amount)
		})
	}
}

// call runs one hook under the registry timeout and logs its failure.
func (r *Registry) call(ctx context.Context, pluginName, hook string, fn func() error) {
	if err := r.callWithTimeout(ctx, pluginName, fn); err != nil {
		r.logger.Warn("plugin hook failed",
			"plugin", pluginName,
			"hook", hook,
			"error", err,
		)
	}
}

// callWithTimeout calls a plugin function with a timeout.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
