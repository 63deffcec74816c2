package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ShiftConfig struct {
	Env        string `yaml:"env" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	ShiftDB    `yaml:"shift_db"`
	Provider   `yaml:"provider"`
	Market     `yaml:"market"`
	Telegram   `yaml:"telegram"`
	Kafka      `yaml:"kafka"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"3001"`
}

type ShiftDB struct {
	Dsn            string `yaml:"dsn" env:"SHIFT_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type Provider struct {
	BaseURL   string        `yaml:"base_url" env-default:"https://sideshift.ai/api/v2"`
	APISecret string        `yaml:"api_secret" env:"SIDESHIFT_API_SECRET"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
}

type Market struct {
	// Pairs is the fixed popular pool, "deposit/settle" per entry.
	Pairs              []string      `yaml:"pairs"`
	RefreshInterval    time.Duration `yaml:"refresh_interval" env-default:"30s"`
	StalenessThreshold time.Duration `yaml:"staleness_threshold" env-default:"60s"`
	BroadcastTop       int           `yaml:"broadcast_top" env-default:"5"`
}

type Telegram struct {
	BotToken        string        `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	DeliveryTimeout time.Duration `yaml:"delivery_timeout" env-default:"5s"`
	PollInterval    time.Duration `yaml:"poll_interval" env-default:"2s"`
}

type Kafka struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// DefaultPairs is used when the config file names no pool.
var DefaultPairs = []string{
	"usdc/eth", "usdc/sol", "usdc/btc",
	"eth/usdc", "eth/btc",
	"btc/eth", "btc/usdc",
	"sol/usdc",
}

func MustLoad() *ShiftConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SHIFT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SHIFT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg ShiftConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	if len(cfg.Market.Pairs) == 0 {
		cfg.Market.Pairs = DefaultPairs
	}

	return &cfg
}
