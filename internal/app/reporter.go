package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hubble-exchange/web3-onboard/internal/state"
	"github.com/hubble-exchange/web3-onboard/internal/wallet"
)

const defaultReportInterval = time.Second

// report is the part of wallet.State the headless reporter logs.
type report struct {
	Wallet       string
	Address      string
	Network      string
	Balance      string
	Syncing      string
	WrongNetwork bool
}

func newReport(st wallet.State) report {
	r := report{
		Wallet:       st.Wallet,
		Address:      st.Address,
		Balance:      st.BalanceEther,
		Syncing:      strings.Join(st.Syncing, ","),
		WrongNetwork: st.WrongNetwork,
	}
	if st.Phases[wallet.SliceNetwork] == state.PhaseSynced {
		r.Network = wallet.NetworkName(st.Network)
	}
	return r
}

// StartReporter launches a background goroutine that logs the combined
// wallet state at a fixed cadence, skipping ticks where nothing changed. The
// returned channel closes once the goroutine exits.
func StartReporter(ctx context.Context, snapshot func() wallet.State, log *zap.Logger, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = defaultReportInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last report
		first := true
		for {
			if r := newReport(snapshot()); first || r != last {
				logReport(log, r)
				last, first = r, false
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

func logReport(log *zap.Logger, r report) {
	if r.Wallet == "" {
		log.Info("wallet state", zap.Bool("connected", false))
		return
	}
	fields := []zap.Field{
		zap.Bool("connected", true),
		zap.String("wallet", r.Wallet),
		zap.String("address", r.Address),
		zap.String("network", r.Network),
	}
	if r.Balance != "" {
		fields = append(fields, zap.String("balance_eth", r.Balance))
	}
	if r.Syncing != "" {
		fields = append(fields, zap.String("syncing", r.Syncing))
	}
	if r.WrongNetwork {
		log.Warn("wallet on wrong network", fields...)
		return
	}
	log.Info("wallet state", fields...)
}
