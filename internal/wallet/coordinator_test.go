package wallet

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubble-exchange/web3-onboard/internal/events"
	"github.com/hubble-exchange/web3-onboard/internal/ledger"
	"github.com/hubble-exchange/web3-onboard/internal/state"
)

const (
	addrA = "0x52908400098527886e0f7030069857d2e4169ee7"
	addrB = "0x8617e340b3d01fa5f11f306f4090fd50e238070d"
)

func newTestCoordinator(t *testing.T, opts Options) *Coordinator {
	t.Helper()
	slices, err := NewSlices(ledger.New(opts.Bus, SliceNames...), SliceOptions{Interval: 5 * time.Millisecond})
	require.NoError(t, err)
	c := NewCoordinator(slices, opts)
	t.Cleanup(c.Close)
	return c
}

func pushOnce[T comparable](v T) *state.Syncer[T] {
	return &state.Syncer[T]{
		OnChange: func(update func(T)) func() {
			update(v)
			return nil
		},
	}
}

func countingGet[T comparable](v T, calls *atomic.Int32) *state.Syncer[T] {
	return &state.Syncer[T]{
		Get: func(context.Context) (T, error) {
			calls.Add(1)
			return v, nil
		},
	}
}

func TestNewCoordinator_InitialDeliveryIsNotATransition(t *testing.T) {
	c := newTestCoordinator(t, Options{})

	assert.Nil(t, c.Active())
	assert.Equal(t, state.PhaseInitial, c.Slices().Address.Get().Phase)
	assert.Equal(t, state.PhaseInitial, c.Slices().Network.Get().Phase)
}

func TestConnect_RejectsInvalidInterfaceAndKeepsPrevious(t *testing.T) {
	c := newTestCoordinator(t, Options{})

	good := &Interface{Name: "alpha", Address: pushOnce(addrA)}
	require.NoError(t, c.Connect(good))

	err := c.Connect(&Interface{Name: "   "})
	var cfgErr *state.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "name", cfgErr.Field)
	assert.Same(t, good, c.Active())
	assert.Equal(t, addrA, c.Slices().Address.Get().V)

	require.Error(t, c.Connect(nil))
	assert.Same(t, good, c.Active())
}

func TestConnect_SwapCancelsPreviousSchedulesAndResetsFirst(t *testing.T) {
	c := newTestCoordinator(t, Options{})
	address := c.Slices().Address

	var phases []state.Value[string]
	address.Subscribe(func(v state.Value[string]) { phases = append(phases, v) })

	var callsA atomic.Int32
	require.NoError(t, c.Connect(&Interface{Name: "alpha", Address: countingGet(addrA, &callsA)}))
	require.Eventually(t, func() bool { return address.Get().V == addrA }, time.Second, time.Millisecond)
	assert.Equal(t, 1, c.Handles())

	require.NoError(t, c.Connect(&Interface{Name: "beta", Address: pushOnce(addrB)}))
	assert.Equal(t, addrB, address.Get().V)

	stopped := callsA.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, callsA.Load(), "alpha's schedule must be cancelled")
	assert.Equal(t, addrB, address.Get().V, "no stale alpha writes after swap")

	// alpha's ticks all wrote the same value; collapse them
	var sequence []state.Phase
	for _, v := range phases {
		if len(sequence) == 0 || sequence[len(sequence)-1] != v.Phase {
			sequence = append(sequence, v.Phase)
		}
	}
	assert.Equal(t, []state.Phase{
		state.PhaseInitial,
		state.PhaseSynced,
		state.PhaseUnsynced,
		state.PhaseSynced,
	}, sequence)
}

func TestConnect_PushCallbacksFromPreviousInterfaceAreDropped(t *testing.T) {
	c := newTestCoordinator(t, Options{})

	var stale func(string)
	require.NoError(t, c.Connect(&Interface{
		Name: "alpha",
		Address: &state.Syncer[string]{
			OnChange: func(update func(string)) func() {
				stale = update
				update(addrA)
				return nil
			},
		},
	}))
	require.NoError(t, c.Connect(&Interface{Name: "beta"}))

	stale(addrB)
	assert.True(t, c.Slices().Address.IsUnsynced())
}

// silentPush registers without ever calling back and hands out the callback.
func silentPush(update *func(string)) *state.Syncer[string] {
	return &state.Syncer[string]{
		OnChange: func(fn func(string)) func() {
			*update = fn
			return nil
		},
	}
}

func TestConnect_StaleFirstPushKeepsNewWalletSyncing(t *testing.T) {
	c := newTestCoordinator(t, Options{})

	var staleAlpha, beta func(string)
	require.NoError(t, c.Connect(&Interface{Name: "alpha", Address: silentPush(&staleAlpha)}))
	require.NoError(t, c.Connect(&Interface{Name: "beta", Address: silentPush(&beta)}))
	require.Equal(t, []string{SliceAddress}, Snapshot(c, AppState{}).Syncing)

	staleAlpha(addrA)

	st := Snapshot(c, AppState{})
	assert.Equal(t, []string{SliceAddress}, st.Syncing)
	assert.Equal(t, state.PhaseUnsynced, st.Phases[SliceAddress])

	beta(addrB)
	st = Snapshot(c, AppState{})
	assert.Empty(t, st.Syncing)
	assert.Equal(t, ChecksumAddress(addrB), st.Address)
}

func TestDisconnect_BeforeFirstPushLeavesNothingSyncing(t *testing.T) {
	c := newTestCoordinator(t, Options{})

	var update func(string)
	require.NoError(t, c.Connect(&Interface{Name: "alpha", Address: silentPush(&update)}))
	require.Equal(t, []string{SliceAddress}, Snapshot(c, AppState{}).Syncing)

	c.Disconnect()

	st := Snapshot(c, AppState{})
	assert.False(t, st.Connected)
	assert.Empty(t, st.Syncing)
}

func TestConnect_NeverMoreThanOneScheduleLivePerSlice(t *testing.T) {
	c := newTestCoordinator(t, Options{SyncBalance: true})

	var calls atomic.Int32
	for i := 0; i < 20; i++ {
		require.NoError(t, c.Connect(&Interface{
			Name:    "w",
			Address: countingGet(addrA, &calls),
			Network: countingGet[uint64](1, &calls),
			Balance: countingGet(big.NewInt(1), &calls),
		}))
		assert.LessOrEqual(t, c.Handles(), 3)
	}
	assert.Equal(t, 3, c.Handles())

	c.Disconnect()
	assert.Equal(t, 0, c.Handles())
}

func TestDisconnect_ResetsSlicesAndPublishes(t *testing.T) {
	bus := events.New()
	var disconnected []string
	require.NoError(t, bus.Subscribe(events.TopicWalletDisconnected, func(name string) {
		disconnected = append(disconnected, name)
	}))
	var connected []string
	require.NoError(t, bus.Subscribe(events.TopicWalletConnected, func(name string) {
		connected = append(connected, name)
	}))

	c := newTestCoordinator(t, Options{Bus: bus})
	require.NoError(t, c.Connect(&Interface{
		Name:    "alpha",
		Address: pushOnce(addrA),
		Network: pushOnce[uint64](5),
	}))
	assert.Equal(t, uint64(5), c.Slices().Network.Get().V)

	c.Disconnect()

	assert.Nil(t, c.Active())
	assert.True(t, c.Slices().Address.IsUnsynced())
	assert.True(t, c.Slices().Network.IsUnsynced())
	assert.True(t, c.Slices().Balance.IsUnsynced())
	assert.Equal(t, []string{"alpha"}, connected)
	assert.Equal(t, []string{"alpha"}, disconnected)
}

func TestConnect_BalanceOnlyDrivenWhenEnabled(t *testing.T) {
	wei := big.NewInt(42)

	off := newTestCoordinator(t, Options{})
	require.NoError(t, off.Connect(&Interface{Name: "alpha", Balance: pushOnce(wei)}))
	assert.Nil(t, off.Slices().Balance.Get().V)
	assert.Equal(t, 0, off.Handles())

	on := newTestCoordinator(t, Options{SyncBalance: true})
	require.NoError(t, on.Connect(&Interface{Name: "alpha", Balance: pushOnce(wei)}))
	assert.Same(t, wei, on.Slices().Balance.Get().V)
}

type countingCheck struct{ resets int }

func (c *countingCheck) Reset() { c.resets++ }

func TestConnect_ResetsChecksOnConnectOnly(t *testing.T) {
	check := &countingCheck{}
	c := newTestCoordinator(t, Options{Checks: []Resetter{check}})

	require.NoError(t, c.Connect(&Interface{Name: "alpha"}))
	require.NoError(t, c.Connect(&Interface{Name: "beta"}))
	c.Disconnect()

	assert.Equal(t, 2, check.resets)
}

func TestClose_CancelsAndStopsFollowing(t *testing.T) {
	c := newTestCoordinator(t, Options{})

	var calls atomic.Int32
	require.NoError(t, c.Connect(&Interface{Name: "alpha", Address: countingGet(addrA, &calls)}))
	c.Close()
	assert.Equal(t, 0, c.Handles())

	require.NoError(t, c.Connect(&Interface{Name: "beta", Address: pushOnce(addrB)}))
	assert.NotEqual(t, addrB, c.Slices().Address.Get().V, "closed coordinator no longer re-wires")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	err := Validate(&Interface{Name: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must not be blank")

	assert.NoError(t, Validate(&Interface{Name: "alpha", Address: &state.Syncer[string]{}}))
}
