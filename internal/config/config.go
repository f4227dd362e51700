package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Server struct {
	Port               string `json:"port" yaml:"port"`
	RequestTimeoutSec  int    `json:"request_timeout_sec" yaml:"request_timeout_sec"`
	ExchangeTimeoutSec int    `json:"exchange_timeout_sec" yaml:"exchange_timeout_sec"`
	CommandTimeoutSec  int    `json:"command_timeout_sec" yaml:"command_timeout_sec"`
}

type Telegram struct {
	Token string `json:"token" yaml:"token"`
}

type Log struct {
	Level string `json:"level" yaml:"level"`
}

type MEXC struct {
	APIKey               string `json:"api_key" yaml:"api_key"`
	APISecret            string `json:"api_secret" yaml:"api_secret"`
	SpotURL              string `json:"spot_url" yaml:"spot_url"`
	FuturesURL           string `json:"futures_url" yaml:"futures_url"`
	WebURL               string `json:"web_url" yaml:"web_url"`
	MaxRequestsPerMinute int    `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	Burst                int    `json:"burst" yaml:"burst"`
	TimeSyncIntervalSec  int    `json:"time_sync_interval_sec" yaml:"time_sync_interval_sec"`
}

type Gate struct {
	APIKey               string `json:"api_key" yaml:"api_key"`
	APISecret            string `json:"api_secret" yaml:"api_secret"`
	BaseURL              string `json:"base_url" yaml:"base_url"`
	WebURL               string `json:"web_url" yaml:"web_url"`
	MaxRequestsPerMinute int    `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	Burst                int    `json:"burst" yaml:"burst"`
}

type Config struct {
	Server       Server   `json:"server" yaml:"server"`
	Telegram     Telegram `json:"telegram" yaml:"telegram"`
	Log          Log      `json:"log" yaml:"log"`
	MEXC         MEXC     `json:"mexc" yaml:"mexc"`
	Gate         Gate     `json:"gate" yaml:"gate"`
	Proxy        string   `json:"proxy" yaml:"proxy"`
	DefaultQuote string   `json:"default_quote" yaml:"default_quote"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10, ExchangeTimeoutSec: 8, CommandTimeoutSec: 15},
		Log:    Log{Level: "info"},
		MEXC: MEXC{
			SpotURL:              "https://api.mexc.com",
			FuturesURL:           "https://contract.mexc.com",
			WebURL:               "https://www.mexc.com",
			MaxRequestsPerMinute: 0,
			Burst:                5,
			TimeSyncIntervalSec:  600,
		},
		Gate: Gate{
			BaseURL:              "https://api.gateio.ws/api/v4",
			WebURL:               "https://www.gate.com",
			MaxRequestsPerMinute: 0,
			Burst:                5,
		},
		DefaultQuote: "USDT",
	}
}

// Load reads config from path (JSON, or YAML for .yaml/.yml). If path is
// empty it falls back to config.json when present, otherwise defaults.
// A .env file in the working directory is loaded first; variables already
// set in the environment win. Environment variables override file values.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := unmarshal(path, b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func unmarshal(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	}
	return json.Unmarshal(b, cfg)
}

// Validate checks what the bot binary cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("BOT_TOKEN is not set")
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Telegram.Token, "BOT_TOKEN")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Server.Port, "PORT")
	setInt(&cfg.Server.RequestTimeoutSec, "REQUEST_TIMEOUT_SEC", 1)
	setInt(&cfg.Server.ExchangeTimeoutSec, "EXCHANGE_TIMEOUT_SEC", 1)
	setInt(&cfg.Server.CommandTimeoutSec, "COMMAND_TIMEOUT_SEC", 1)
	setString(&cfg.Proxy, "HTTP_PROXY")
	setString(&cfg.DefaultQuote, "DEFAULT_QUOTE")

	setString(&cfg.MEXC.APIKey, "MEXC_API_KEY")
	setString(&cfg.MEXC.APISecret, "MEXC_API_SECRET")
	setString(&cfg.MEXC.SpotURL, "MEXC_SPOT_URL")
	setString(&cfg.MEXC.FuturesURL, "MEXC_FUTURES_URL")
	setString(&cfg.MEXC.WebURL, "MEXC_WEB_URL")
	setInt(&cfg.MEXC.MaxRequestsPerMinute, "MEXC_MAX_RPM", 0)
	setInt(&cfg.MEXC.Burst, "MEXC_BURST", 1)
	setInt(&cfg.MEXC.TimeSyncIntervalSec, "MEXC_TIME_SYNC_SEC", 0)

	setString(&cfg.Gate.APIKey, "GATE_API_KEY")
	setString(&cfg.Gate.APISecret, "GATE_API_SECRET")
	setString(&cfg.Gate.BaseURL, "GATE_BASE_URL")
	setString(&cfg.Gate.WebURL, "GATE_WEB_URL")
	setInt(&cfg.Gate.MaxRequestsPerMinute, "GATE_MAX_RPM", 0)
	setInt(&cfg.Gate.Burst, "GATE_BURST", 1)

	cfg.DefaultQuote = strings.ToUpper(strings.TrimSpace(cfg.DefaultQuote))
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// setInt overrides dst when key holds an integer >= floor.
func setInt(dst *int, key string, floor int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var x int
	if _, err := fmt.Sscanf(v, "%d", &x); err == nil && x >= floor {
		*dst = x
	}
}
