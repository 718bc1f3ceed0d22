package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"btcEthDCA/internal/dca"
)

// Config holds all application configuration.
type Config struct {
	Simulation struct {
		AssetA        string  `yaml:"asset_a"`
		AssetB        string  `yaml:"asset_b"`
		MonthlyBudget float64 `yaml:"monthly_budget"`
		SupplyRatio   float64 `yaml:"supply_ratio"`
		Years         int     `yaml:"years"`
	} `yaml:"simulation"`
	Chart struct {
		Path   string `yaml:"path"`
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
	} `yaml:"chart"`
	Yahoo struct {
		Proxy           string        `yaml:"proxy"`
		RequestInterval time.Duration `yaml:"request_interval"`
	} `yaml:"yahoo"`
	Telegram struct {
		BotToken         string `yaml:"bot_token"`
		WebhookPublicURL string `yaml:"webhook_public_url"`
	} `yaml:"telegram"`
	Report struct {
		Cron   string `yaml:"cron"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"report"`
	Port     string        `yaml:"port"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	LogLevel string        `yaml:"log_level"`
}

// Defaults for values not set by file or environment.
const (
	DefaultAssetA    = "BTC-USD"
	DefaultAssetB    = "ETH-USD"
	DefaultYears     = 5
	DefaultChartPath = "btc_eth_strategies_monthly.png"
	DefaultPort      = "9095"
)

// Load reads an optional .env file and an optional YAML file, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional; real environment wins

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("ASSET_A"); v != "" {
		cfg.Simulation.AssetA = v
	}
	if v := os.Getenv("ASSET_B"); v != "" {
		cfg.Simulation.AssetB = v
	}
	if v := os.Getenv("MONTHLY_BUDGET"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MONTHLY_BUDGET %q: %w", v, err)
		}
		cfg.Simulation.MonthlyBudget = f
	}
	if v := os.Getenv("SUPPLY_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SUPPLY_RATIO %q: %w", v, err)
		}
		cfg.Simulation.SupplyRatio = f
	}
	if v := os.Getenv("DCA_YEARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DCA_YEARS %q: %w", v, err)
		}
		cfg.Simulation.Years = n
	}
	if v := os.Getenv("CHART_PATH"); v != "" {
		cfg.Chart.Path = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Yahoo.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("WEBHOOK_PUBLIC_URL"); v != "" {
		cfg.Telegram.WebhookPublicURL = v
	}
	if v := os.Getenv("REPORT_CRON"); v != "" {
		cfg.Report.Cron = v
	}
	if v := os.Getenv("REPORT_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid REPORT_CHAT_ID %q: %w", v, err)
		}
		cfg.Report.ChatID = id
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Simulation.AssetA == "" {
		cfg.Simulation.AssetA = DefaultAssetA
	}
	if cfg.Simulation.AssetB == "" {
		cfg.Simulation.AssetB = DefaultAssetB
	}
	if cfg.Simulation.MonthlyBudget == 0 {
		cfg.Simulation.MonthlyBudget = dca.DefaultMonthlyBudget
	}
	if cfg.Simulation.SupplyRatio == 0 {
		cfg.Simulation.SupplyRatio = dca.DefaultSupplyRatio
	}
	if cfg.Simulation.Years == 0 {
		cfg.Simulation.Years = DefaultYears
	}
	if cfg.Chart.Path == "" {
		cfg.Chart.Path = DefaultChartPath
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1400
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 700
	}
	if cfg.Yahoo.RequestInterval == 0 {
		cfg.Yahoo.RequestInterval = 120 * time.Millisecond
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks the simulation settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Simulation.AssetA) == "" || strings.TrimSpace(c.Simulation.AssetB) == "" {
		return fmt.Errorf("simulation.asset_a and simulation.asset_b are required")
	}
	if strings.EqualFold(c.Simulation.AssetA, c.Simulation.AssetB) {
		return fmt.Errorf("simulation assets must differ, both are %s", c.Simulation.AssetA)
	}
	if !dca.PositiveFinite(c.Simulation.MonthlyBudget) {
		return fmt.Errorf("simulation.monthly_budget must be a positive finite number, got %v", c.Simulation.MonthlyBudget)
	}
	if !dca.PositiveFinite(c.Simulation.SupplyRatio) {
		return fmt.Errorf("simulation.supply_ratio must be a positive finite number, got %v", c.Simulation.SupplyRatio)
	}
	if c.Simulation.Years < 1 || c.Simulation.Years > 10 {
		return fmt.Errorf("simulation.years must be between 1 and 10")
	}
	return nil
}

// ValidateBot checks the settings the Telegram bot cannot run without.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("missing env TELEGRAM_BOT_TOKEN")
	}
	if c.Telegram.WebhookPublicURL == "" {
		return fmt.Errorf("missing env WEBHOOK_PUBLIC_URL")
	}
	if c.Report.Cron != "" && c.Report.ChatID == 0 {
		return fmt.Errorf("report.chat_id is required when report.cron is set")
	}
	return nil
}
