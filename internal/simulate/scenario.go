package simulate

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/hubble-exchange/web3-onboard/internal/wallet"
)

// Scenario is a set of fake wallets plus a timeline of connect and
// disconnect steps.
type Scenario struct {
	Wallets []WalletSpec
	Steps   []Step
}

// WalletSpec scripts one wallet. Nil scripts mean the wallet does not
// drive that slice.
type WalletSpec struct {
	Name    string
	Address *Script[string]
	Network *Script[uint64]
	Balance *Script[*big.Int]
}

// Step is one timeline entry. Connect is empty for a disconnect.
type Step struct {
	At      time.Duration
	Connect string
}

// Interface builds a wallet.Interface whose syncers start their scripts now.
func (w WalletSpec) Interface() *wallet.Interface {
	return &wallet.Interface{
		Name:    w.Name,
		Address: w.Address.Syncer(),
		Network: w.Network.Syncer(),
		Balance: w.Balance.Syncer(),
	}
}

// Wallet looks a wallet up by name.
func (s *Scenario) Wallet(name string) (WalletSpec, bool) {
	for _, w := range s.Wallets {
		if w.Name == name {
			return w, true
		}
	}
	return WalletSpec{}, false
}

type rawScript[T any] struct {
	Mode      string `toml:"mode"`
	Values    []T    `toml:"values"`
	EveryMS   int    `toml:"every_ms"`
	LatencyMS int    `toml:"latency_ms"`
	FailEvery int    `toml:"fail_every"`
}

type rawWallet struct {
	Name    string             `toml:"name"`
	Address *rawScript[string] `toml:"address"`
	Network *rawScript[uint64] `toml:"network"`
	Balance *rawScript[string] `toml:"balance"`
}

type rawStep struct {
	AtMS       int    `toml:"at_ms"`
	Connect    string `toml:"connect"`
	Disconnect bool   `toml:"disconnect"`
}

type rawScenario struct {
	Wallets []rawWallet `toml:"wallet"`
	Steps   []rawStep   `toml:"step"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario. Every problem found is reported.
func Parse(data []byte) (*Scenario, error) {
	var raw rawScenario
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	var errs []error
	sc := &Scenario{}
	seen := make(map[string]bool)

	if len(raw.Wallets) == 0 {
		errs = append(errs, errors.New("no wallets defined"))
	}
	for i, rw := range raw.Wallets {
		name := strings.TrimSpace(rw.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("wallet %d: name is blank", i))
			continue
		case seen[name]:
			errs = append(errs, fmt.Errorf("wallet %q: defined twice", name))
			continue
		}
		seen[name] = true

		ws := WalletSpec{Name: name}
		var err error
		if ws.Address, err = convert(rw.Address, parseAddress); err != nil {
			errs = append(errs, fmt.Errorf("wallet %q: address: %w", name, err))
		}
		if ws.Network, err = convert(rw.Network, func(v uint64) (uint64, error) { return v, nil }); err != nil {
			errs = append(errs, fmt.Errorf("wallet %q: network: %w", name, err))
		}
		if ws.Balance, err = convert(rw.Balance, parseWei); err != nil {
			errs = append(errs, fmt.Errorf("wallet %q: balance: %w", name, err))
		}
		sc.Wallets = append(sc.Wallets, ws)
	}

	for i, rs := range raw.Steps {
		if rs.AtMS < 0 {
			errs = append(errs, fmt.Errorf("step %d: at_ms is negative", i))
			continue
		}
		connect := strings.TrimSpace(rs.Connect)
		switch {
		case connect != "" && rs.Disconnect:
			errs = append(errs, fmt.Errorf("step %d: both connect and disconnect set", i))
			continue
		case connect == "" && !rs.Disconnect:
			errs = append(errs, fmt.Errorf("step %d: neither connect nor disconnect set", i))
			continue
		case connect != "" && !seen[connect]:
			errs = append(errs, fmt.Errorf("step %d: unknown wallet %q", i, connect))
			continue
		}
		sc.Steps = append(sc.Steps, Step{At: time.Duration(rs.AtMS) * time.Millisecond, Connect: connect})
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].At < sc.Steps[j].At })

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return sc, nil
}

func convert[R any, T comparable](raw *rawScript[R], parse func(R) (T, error)) (*Script[T], error) {
	if raw == nil {
		return nil, nil
	}
	mode := strings.ToLower(strings.TrimSpace(raw.Mode))
	if mode == "" {
		mode = ModePoll
	}
	if mode != ModePoll && mode != ModePush {
		return nil, fmt.Errorf("unknown mode %q", raw.Mode)
	}
	if len(raw.Values) == 0 {
		return nil, errors.New("values must not be empty")
	}
	if raw.EveryMS < 0 || raw.LatencyMS < 0 || raw.FailEvery < 0 {
		return nil, errors.New("every_ms, latency_ms and fail_every must not be negative")
	}
	if mode == ModePush && raw.FailEvery > 0 {
		return nil, errors.New("fail_every only applies to poll mode")
	}

	values := make([]T, 0, len(raw.Values))
	for _, rv := range raw.Values {
		v, err := parse(rv)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &Script[T]{
		Mode:      mode,
		Values:    values,
		Every:     time.Duration(raw.EveryMS) * time.Millisecond,
		Latency:   time.Duration(raw.LatencyMS) * time.Millisecond,
		FailEvery: raw.FailEvery,
	}, nil
}

func parseAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("%q is not a hex address", s)
	}
	return s, nil
}

func parseWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	wei, ok := new(big.Int).SetString(s, 10)
	if !ok || wei.Sign() < 0 {
		return nil, fmt.Errorf("%q is not a wei amount", s)
	}
	return wei, nil
}
