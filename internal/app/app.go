package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hubble-exchange/web3-onboard/internal/config"
	"github.com/hubble-exchange/web3-onboard/internal/events"
	"github.com/hubble-exchange/web3-onboard/internal/logging"
	"github.com/hubble-exchange/web3-onboard/internal/metrics"
	"github.com/hubble-exchange/web3-onboard/internal/prefs"
	"github.com/hubble-exchange/web3-onboard/internal/simulate"
	"github.com/hubble-exchange/web3-onboard/internal/ui"
)

// Options configure a walletsync run.
type Options struct {
	ConfigPath   string
	ScenarioPath string // empty starts with no scripted wallets
	PollMS       int    // overrides sync.interval_ms when positive
	Headless     bool   // log state changes instead of starting the TUI
	PrefsPath    string // empty uses ~/.config/walletsync/prefs.toml
	Stderr       io.Writer
}

// Run boots the sync engine and blocks until ctx is cancelled, the scenario
// finishes (headless), or the user quits (TUI).
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollMS > 0 {
		cfg.SyncInterval = time.Duration(opts.PollMS) * time.Millisecond
	}

	// The TUI owns the terminal, so console logging is headless only.
	log, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: opts.Headless,
		Stderr:  opts.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var scenario *simulate.Scenario
	if opts.ScenarioPath != "" {
		scenario, err = simulate.Load(opts.ScenarioPath)
		if err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eng, err := newEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := logEvents(eng.bus, log); err != nil {
		return fmt.Errorf("subscribe events: %w", err)
	}

	if cfg.MetricsAddr != "" {
		_, stop, err := serveMetrics(cfg.MetricsAddr, eng, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	var player *simulate.Player
	if scenario != nil {
		player = simulate.NewPlayer(scenario, eng.coordinator, log.Named("scenario"))
	}

	log.Info("walletsync started",
		zap.String("app", cfg.AppName),
		zap.Uint64("network_id", cfg.NetworkID),
		zap.Duration("interval", cfg.SyncInterval),
		zap.Bool("sync_balance", cfg.SyncBalance),
		zap.Bool("headless", opts.Headless),
	)

	if opts.Headless {
		return runHeadless(ctx, eng, player, log)
	}

	if player != nil {
		go func() {
			if err := player.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("scenario stopped", zap.Error(err))
			}
		}()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	theme := cfg.Theme
	if saved := prefs.Load(prefsPath).Theme; saved != "" {
		theme = saved
	}
	uiOpts := ui.Options{
		View:      eng.view,
		ThemeName: theme,
		PrefsPath: prefsPath,
		LogPath:   cfg.LogFile,
	}
	if player != nil {
		uiOpts.Controller = player
	}
	return ui.Run(ctx, uiOpts)
}

// runHeadless plays the scenario timeline and reports state until the
// timeline ends and the engine has had one more report interval to settle,
// or until ctx is cancelled.
func runHeadless(ctx context.Context, eng *engine, player *simulate.Player, log *zap.Logger) error {
	reportCtx, stopReports := context.WithCancel(ctx)
	reported := StartReporter(reportCtx, eng.snapshot, log, eng.reportInterval())
	defer func() {
		stopReports()
		<-reported
	}()

	if player == nil {
		<-ctx.Done()
		return nil
	}
	if err := player.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	log.Info("scenario finished")
	select {
	case <-ctx.Done():
	case <-time.After(eng.reportInterval()):
	}
	return nil
}

// logEvents mirrors ledger activity onto the debug log.
func logEvents(bus *events.Bus, log *zap.Logger) error {
	return bus.Subscribe(events.TopicSyncStatus, func(slice string, syncing bool) {
		log.Debug("sync status", zap.String("slice", slice), zap.Bool("syncing", syncing))
	})
}

// serveMetrics exposes the engine's registry on addr/metrics and returns the
// bound address and a function that shuts the server down.
func serveMetrics(addr string, eng *engine, log *zap.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(eng.registry))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	bound := ln.Addr().String()
	log.Info("metrics listening", zap.String("addr", bound))

	return bound, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// CheckScenario validates the scenario at path and prints a summary to w.
func CheckScenario(path string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	sc, err := simulate.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%d wallets, %d steps\n", len(sc.Wallets), len(sc.Steps))
	for _, ws := range sc.Wallets {
		modes := ws.Interface().Modes()
		slices := make([]string, 0, len(modes))
		for slice := range modes {
			slices = append(slices, slice)
		}
		sort.Strings(slices)
		fmt.Fprintf(w, "  %s:", ws.Name)
		for _, slice := range slices {
			fmt.Fprintf(w, " %s=%s", slice, modes[slice])
		}
		fmt.Fprintln(w)
	}
	for _, step := range sc.Steps {
		if step.Connect == "" {
			fmt.Fprintf(w, "  @%s disconnect\n", step.At)
			continue
		}
		fmt.Fprintf(w, "  @%s connect %s\n", step.At, step.Connect)
	}
	return nil
}
