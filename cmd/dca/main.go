package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"btcEthDCA/internal/config"
	"btcEthDCA/internal/dca"
	"btcEthDCA/internal/finance"
	"btcEthDCA/internal/logging"
	"btcEthDCA/internal/report"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath  string
	budget      float64
	years       int
	supplyRatio float64
	assetA      string
	assetB      string
	outPath     string
	timeout     time.Duration
	pretty      bool
)

var rootCmd = &cobra.Command{
	Use:           "dca",
	Short:         "Compare monthly DCA allocation strategies for two crypto assets",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Download monthly closes, simulate the three strategies and write the chart",
	Long: `Simulate invests a fixed budget every month into two assets using three
allocation rules: distance from all-time high, market-cap weighting and a
fixed 50/50 split. It writes a PNG comparison chart and prints the summary.

Example usage:
  dca simulate                             # $500/month, last 5 years
  dca simulate --budget 250 --years 3
  dca simulate --out charts/dca.png --config config.yaml`,
	RunE: runSimulate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "dca", version)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd, versionCmd)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to YAML configuration file (optional)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Human-readable log output")

	simulateCmd.Flags().Float64Var(&budget, "budget", dca.DefaultMonthlyBudget, "Monthly investment in USD")
	simulateCmd.Flags().IntVar(&years, "years", config.DefaultYears, "Lookback in years (1-10)")
	simulateCmd.Flags().Float64Var(&supplyRatio, "supply-ratio", dca.DefaultSupplyRatio, "Circulating supply of asset B over asset A")
	simulateCmd.Flags().StringVar(&assetA, "asset-a", config.DefaultAssetA, "Yahoo symbol of asset A")
	simulateCmd.Flags().StringVar(&assetB, "asset-b", config.DefaultAssetB, "Yahoo symbol of asset B")
	simulateCmd.Flags().StringVar(&outPath, "out", config.DefaultChartPath, "Output PNG path")
	simulateCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall download timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("dca: failed")
		os.Exit(1)
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, pretty)
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	runner := &report.Runner{
		Provider: finance.NewYahooProvider(
			finance.WithProxy(cfg.Yahoo.Proxy),
			finance.WithRateLimit(cfg.Yahoo.RequestInterval, 1),
		),
		Chart: finance.ChartOptions{Width: cfg.Chart.Width, Height: cfg.Chart.Height},
	}
	rep, err := runner.Run(ctx, "cli", report.Request{
		AssetA: cfg.Simulation.AssetA,
		AssetB: cfg.Simulation.AssetB,
		Years:  cfg.Simulation.Years,
		Params: dca.Params{MonthlyBudget: cfg.Simulation.MonthlyBudget, SupplyRatio: cfg.Simulation.SupplyRatio},
	})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.Chart.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart directory: %w", err)
		}
	}
	if err := os.WriteFile(cfg.Chart.Path, rep.Chart, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	log.Info().Str("component", "cli").Str("run_id", rep.RunID).Str("path", cfg.Chart.Path).Msg("cli: chart saved")

	fmt.Fprintln(cmd.OutOrStdout(), rep.Text)
	return nil
}

// applyFlags lets explicitly set flags win over file and environment values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("budget") {
		cfg.Simulation.MonthlyBudget = budget
	}
	if f.Changed("years") {
		cfg.Simulation.Years = years
	}
	if f.Changed("supply-ratio") {
		cfg.Simulation.SupplyRatio = supplyRatio
	}
	if f.Changed("asset-a") {
		cfg.Simulation.AssetA = assetA
	}
	if f.Changed("asset-b") {
		cfg.Simulation.AssetB = assetB
	}
	if f.Changed("out") {
		cfg.Chart.Path = outPath
	}
}
