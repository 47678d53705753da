package observability_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/observability"
	"github.com/xraph/stakeledger/types"
)

type fakeFactory struct {
	mu         sync.Mutex
	counters   map[string]float64
	histograms map[string][]float64
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		counters:   make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

type fakeCounter struct {
	f    *fakeFactory
	name string
}

func (c fakeCounter) Inc() { c.Add(1) }

func (c fakeCounter) Add(v float64) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	c.f.counters[c.name] += v
}

type fakeHistogram struct {
	f    *fakeFactory
	name string
}

func (h fakeHistogram) Observe(v float64) {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()
	h.f.histograms[h.name] = append(h.f.histograms[h.name], v)
}

func (f *fakeFactory) Counter(name string) observability.Counter {
	return fakeCounter{f: f, name: name}
}

func (f *fakeFactory) Histogram(name string) observability.Histogram {
	return fakeHistogram{f: f, name: name}
}

func TestMetricsExtension(t *testing.T) {
	ctx := context.Background()
	f := newFakeFactory()
	m := observability.NewMetricsExtension(f)
	acct := id.NewAccountID()

	require.NoError(t, m.OnInit(ctx, nil))
	require.NoError(t, m.OnStaked(ctx, acct, types.NewAmount(100)))
	require.NoError(t, m.OnStaked(ctx, acct, types.NewAmount(50)))
	require.NoError(t, m.OnWithdrawn(ctx, acct, types.NewAmount(30)))
	require.NoError(t, m.OnRewardPaid(ctx, acct, types.NewAmount(7)))
	require.NoError(t, m.OnRewardAdded(ctx, types.NewAmount(604800)))
	require.NoError(t, m.OnRewardRateUpdated(ctx, types.NewAmount(1)))
	require.NoError(t, m.OnAssetRecovered(ctx, id.NewAssetID(), acct, types.NewAmount(2)))
	require.NoError(t, m.OnShutdown(ctx))

	assert.Equal(t, 1.0, f.counters["stakeledger.started"])
	assert.Equal(t, 2.0, f.counters["stakeledger.stake.count"])
	assert.Equal(t, []float64{100, 50}, f.histograms["stakeledger.stake.amount"])
	assert.Equal(t, 1.0, f.counters["stakeledger.withdraw.count"])
	assert.Equal(t, []float64{7}, f.histograms["stakeledger.reward.paid.amount"])
	assert.Equal(t, []float64{604800}, f.histograms["stakeledger.reward.added.amount"])
	assert.Equal(t, 1.0, f.counters["stakeledger.reward_rate.updates"])
	assert.Equal(t, 1.0, f.counters["stakeledger.asset.recovered"])
	assert.Equal(t, 1.0, f.counters["stakeledger.stopped"])
}

func TestLargeAmountsAreApproximated(t *testing.T) {
	f := newFakeFactory()
	m := observability.NewMetricsExtension(f)

	big := types.MustParseAmount("1000000000000000000000000")
	require.NoError(t, m.OnRewardAdded(context.Background(), big))

	got := f.histograms["stakeledger.reward.added.amount"]
	require.Len(t, got, 1)
	assert.InEpsilon(t, 1e24, got[0], 1e-9)
}
