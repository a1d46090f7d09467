package wallet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/hubble-exchange/web3-onboard/internal/ledger"
	"github.com/hubble-exchange/web3-onboard/internal/state"
)

// SliceOptions configure the three slice stores.
type SliceOptions struct {
	Context         context.Context
	Logger          *zap.Logger
	Observer        state.Observer
	Interval        time.Duration // shared default, 200ms when zero
	AddressInterval time.Duration
	NetworkInterval time.Duration
	BalanceInterval time.Duration
}

// Slices groups the stores the coordinator drives.
type Slices struct {
	Ledger  *ledger.Ledger
	Address *state.Store[string]
	Network *state.Store[uint64]
	Balance *state.Store[*big.Int]
}

// NewSlices builds address, network and balance stores over l. l must know
// every name in SliceNames.
func NewSlices(l *ledger.Ledger, opts SliceOptions) (*Slices, error) {
	common := func(every time.Duration) []state.Option {
		if every <= 0 {
			every = opts.Interval
		}
		return []state.Option{
			state.WithInterval(every),
			state.WithContext(opts.Context),
			state.WithLogger(opts.Logger),
			state.WithObserver(opts.Observer),
		}
	}

	address, err := state.NewStore(SliceAddress, "", l, common(opts.AddressInterval)...)
	if err != nil {
		return nil, fmt.Errorf("address slice: %w", err)
	}
	network, err := state.NewStore[uint64](SliceNetwork, 0, l, common(opts.NetworkInterval)...)
	if err != nil {
		return nil, fmt.Errorf("network slice: %w", err)
	}
	balance, err := state.NewStore[*big.Int](SliceBalance, nil, l, common(opts.BalanceInterval)...)
	if err != nil {
		return nil, fmt.Errorf("balance slice: %w", err)
	}

	return &Slices{Ledger: l, Address: address, Network: network, Balance: balance}, nil
}

type resettable interface {
	Reset()
	IsUnsynced() bool
}

func (s *Slices) all() []resettable {
	return []resettable{s.Address, s.Network, s.Balance}
}

// ResetAll puts every slice not already unsynced back to unsynced.
func (s *Slices) ResetAll() {
	for _, slice := range s.all() {
		if !slice.IsUnsynced() {
			slice.Reset()
		}
	}
}
