package wallet

import (
	"errors"
	"math/big"
	"strings"

	"github.com/hubble-exchange/web3-onboard/internal/state"
)

// Slice names. They key the ledger.
const (
	SliceAddress = "address"
	SliceNetwork = "network"
	SliceBalance = "balance"
)

// SliceNames lists every slice the coordinator manages.
var SliceNames = []string{SliceAddress, SliceNetwork, SliceBalance}

// Interface is a connected wallet: its name and the syncers it offers for
// each slice. A nil syncer means the wallet does not drive that slice.
type Interface struct {
	Name    string
	Address *state.Syncer[string]
	Network *state.Syncer[uint64]
	Balance *state.Syncer[*big.Int]
}

// Validate checks iface before it may become the active interface. Every
// problem found is reported, each as a *state.ConfigError.
func Validate(iface *Interface) error {
	if iface == nil {
		return &state.ConfigError{Field: "interface", Reason: "must not be nil"}
	}
	var errs []error
	if strings.TrimSpace(iface.Name) == "" {
		errs = append(errs, &state.ConfigError{Field: "name", Reason: "must not be blank"})
	}
	if iface.Address != nil {
		errs = append(errs, iface.Address.Validate(SliceAddress))
	}
	if iface.Network != nil {
		errs = append(errs, iface.Network.Validate(SliceNetwork))
	}
	if iface.Balance != nil {
		errs = append(errs, iface.Balance.Validate(SliceBalance))
	}
	return errors.Join(errs...)
}

// Modes reports, per slice, whether the interface pushes, is polled, or
// offers nothing.
func (i *Interface) Modes() map[string]string {
	return map[string]string{
		SliceAddress: i.Address.Mode(),
		SliceNetwork: i.Network.Mode(),
		SliceBalance: i.Balance.Mode(),
	}
}
