package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hubble-exchange/web3-onboard/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "walletsync: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "walletsync",
		Short:         "Keep wallet address, network and balance in sync with the connected wallet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Run the sync engine with the terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Headless = false
			return app.Run(cmd.Context(), opts)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sync engine headless, logging state changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Headless = true
			opts.Stderr = cmd.ErrOrStderr()
			return app.Run(cmd.Context(), opts)
		},
	}

	for _, c := range []*cobra.Command{watch, runCmd} {
		c.Flags().StringVar(&opts.ConfigPath, "config", "", "config path (default ~/.config/walletsync/config.toml)")
		c.Flags().StringVar(&opts.ScenarioPath, "scenario", "", "scenario file with scripted wallets")
		c.Flags().IntVar(&opts.PollMS, "poll-ms", 0, "poll interval in milliseconds (overrides sync.interval_ms)")
	}

	var checkPath string
	check := &cobra.Command{
		Use:   "check",
		Short: "Validate a scenario file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.CheckScenario(checkPath, cmd.OutOrStdout())
		},
	}
	check.Flags().StringVar(&checkPath, "scenario", "", "scenario file to validate")
	_ = check.MarkFlagRequired("scenario")

	root.AddCommand(watch, runCmd, check)
	return root
}
