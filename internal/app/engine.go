package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hubble-exchange/web3-onboard/internal/config"
	"github.com/hubble-exchange/web3-onboard/internal/events"
	"github.com/hubble-exchange/web3-onboard/internal/ledger"
	"github.com/hubble-exchange/web3-onboard/internal/metrics"
	"github.com/hubble-exchange/web3-onboard/internal/observable"
	"github.com/hubble-exchange/web3-onboard/internal/wallet"
)

// engine is the wired sync engine: ledger, slices, coordinator and the
// combined view, plus the bus and metrics around them.
type engine struct {
	bus         *events.Bus
	slices      *wallet.Slices
	coordinator *wallet.Coordinator
	view        *observable.Derived[wallet.State]
	registry    *prometheus.Registry
	app         wallet.AppState
	syncEvery   time.Duration
}

func newEngine(ctx context.Context, cfg config.Config, log *zap.Logger) (*engine, error) {
	e := &engine{
		bus:       events.New(),
		registry:  prometheus.NewRegistry(),
		app:       wallet.AppState{Name: cfg.AppName, NetworkID: cfg.NetworkID},
		syncEvery: cfg.SyncInterval,
	}

	recorder, err := metrics.NewRecorder(e.registry, e.liveHandles)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	slices, err := wallet.NewSlices(ledger.New(e.bus, wallet.SliceNames...), wallet.SliceOptions{
		Context:         ctx,
		Logger:          log,
		Observer:        recorder,
		Interval:        cfg.SyncInterval,
		AddressInterval: cfg.IntervalFor(wallet.SliceAddress),
		NetworkInterval: cfg.IntervalFor(wallet.SliceNetwork),
		BalanceInterval: cfg.IntervalFor(wallet.SliceBalance),
	})
	if err != nil {
		return nil, fmt.Errorf("build slices: %w", err)
	}
	e.slices = slices

	e.coordinator = wallet.NewCoordinator(slices, wallet.Options{
		Logger:      log,
		Bus:         e.bus,
		SyncBalance: cfg.SyncBalance,
	})
	e.view = wallet.NewView(e.coordinator, e.app)
	return e, nil
}

func (e *engine) liveHandles() int {
	if e.coordinator == nil {
		return 0
	}
	return e.coordinator.Handles()
}

func (e *engine) snapshot() wallet.State {
	return e.view.Get()
}

// reportInterval is the headless report cadence: never faster than a second,
// and never faster than the slices are polled.
func (e *engine) reportInterval() time.Duration {
	if e.syncEvery > defaultReportInterval {
		return e.syncEvery
	}
	return defaultReportInterval
}

// Close detaches the view and stops every attachment.
func (e *engine) Close() {
	e.view.Close()
	e.coordinator.Close()
	e.bus.WaitAsync()
}
