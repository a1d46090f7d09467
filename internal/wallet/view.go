package wallet

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"

	"github.com/hubble-exchange/web3-onboard/internal/observable"
	"github.com/hubble-exchange/web3-onboard/internal/state"
)

// AppState carries the application-wide fields the combined view exposes.
type AppState struct {
	Name      string
	NetworkID uint64 // expected network; zero accepts any
}

// State is the combined, read-only picture handed to the UI.
type State struct {
	App          AppState
	Connected    bool
	Wallet       string
	Address      string
	Network      uint64
	Balance      *big.Int
	BalanceEther string
	WrongNetwork bool
	Phases       map[string]state.Phase
	Syncing      []string
}

// IsSyncing reports whether slice has an operation in flight.
func (s State) IsSyncing(slice string) bool {
	for _, name := range s.Syncing {
		if name == slice {
			return true
		}
	}
	return false
}

// NewView derives State from the active interface, every slice and the ledger.
// Close the returned view to detach it.
func NewView(c *Coordinator, app AppState) *observable.Derived[State] {
	slices := c.Slices()
	return observable.Derive(func() State {
		return Snapshot(c, app)
	}, c.Interface(), slices.Address, slices.Network, slices.Balance, slices.Ledger)
}

// Snapshot assembles State from the coordinator's current values.
func Snapshot(c *Coordinator, app AppState) State {
	slices := c.Slices()
	address := slices.Address.Get()
	network := slices.Network.Get()
	balance := slices.Balance.Get()

	st := State{
		App:     app,
		Address: ChecksumAddress(address.V),
		Network: network.V,
		Balance: balance.V,
		Phases: map[string]state.Phase{
			SliceAddress: address.Phase,
			SliceNetwork: network.Phase,
			SliceBalance: balance.Phase,
		},
		Syncing: slices.Ledger.Syncing(),
	}
	if iface := c.Active(); iface != nil {
		st.Connected = true
		st.Wallet = iface.Name
	}
	if balance.V != nil {
		st.BalanceEther = FormatEther(balance.V)
	}
	st.WrongNetwork = app.NetworkID != 0 && network.IsSynced() && network.V != app.NetworkID
	return st
}

// ChecksumAddress returns the EIP-55 form of a hex address and leaves
// anything else untouched.
func ChecksumAddress(addr string) string {
	if !common.IsHexAddress(addr) {
		return addr
	}
	return common.HexToAddress(addr).Hex()
}

var knownNetworks = map[uint64]string{
	params.MainnetChainConfig.ChainID.Uint64(): "mainnet",
	params.SepoliaChainConfig.ChainID.Uint64(): "sepolia",
	params.HoleskyChainConfig.ChainID.Uint64(): "holesky",
}

// NetworkName returns a short label for well-known chain IDs and the decimal
// ID otherwise. Zero renders empty.
func NetworkName(id uint64) string {
	if id == 0 {
		return ""
	}
	if name, ok := knownNetworks[id]; ok {
		return name
	}
	return strconv.FormatUint(id, 10)
}

// FormatEther renders a wei amount in ether with four decimals.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return ""
	}
	f := new(big.Float).SetInt(wei)
	f.Quo(f, new(big.Float).SetInt(big.NewInt(params.Ether)))
	return f.Text('f', 4)
}
