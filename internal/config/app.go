package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Scheduler struct {
	Enabled         bool          `mapstructure:"enabled"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	EvictInterval   time.Duration `mapstructure:"evict_interval"`
}

type Cache struct {
	Backend  string `mapstructure:"backend"`
	MaxItems int64  `mapstructure:"max_items"`
}

type ExchangeRate struct {
	CacheDuration    time.Duration `mapstructure:"cache_duration"`
	Currencies       []string      `mapstructure:"currencies"`
	RefreshBatchSize int           `mapstructure:"refresh_batch_size"`
	RefreshPause     time.Duration `mapstructure:"refresh_pause"`
	DemoFallback     bool          `mapstructure:"demo_fallback"`
}

type Provider struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

func (p Provider) Configured() bool { return strings.TrimSpace(p.APIKey) != "" }

type Providers struct {
	ExchangeRateAPI   Provider `mapstructure:"exchangerate_api"`
	Fixer             Provider `mapstructure:"fixer"`
	CurrencyAPI       Provider `mapstructure:"currency_api"`
	OpenExchangeRates Provider `mapstructure:"open_exchange_rates"`
	CurrencyLayer     Provider `mapstructure:"currency_layer"`
}

type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type AppConfig struct {
	HTTPServer   HTTPServer   `mapstructure:"http_server"`
	DbServer     DbServer     `mapstructure:"db_server"`
	HTTPClient   HTTPClient   `mapstructure:"http_client"`
	Logging      Logging      `mapstructure:"logging"`
	Scheduler    Scheduler    `mapstructure:"scheduler"`
	Cache        Cache        `mapstructure:"cache"`
	ExchangeRate ExchangeRate `mapstructure:"exchange_rate"`
	Providers    Providers    `mapstructure:"providers"`
	Kafka        Kafka        `mapstructure:"kafka"`
}

// Init loads .env (if present) and the YAML file named by CONFIG_PATH, config.yaml by default.
func Init() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return Load(path)
}

// Load reads the config file at path, applying defaults and env overrides.
// A missing file is not an error; defaults and env vars still apply.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.ExchangeRate.Currencies = normalizeCodes(cfg.ExchangeRate.Currencies)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")

	v.SetDefault("db_server.enabled", true)
	v.SetDefault("db_server.max_conns", 10)

	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("logging.level", "info")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.refresh_interval", 240*time.Minute)
	v.SetDefault("scheduler.evict_interval", 30*time.Minute)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_items", 10_000)

	v.SetDefault("exchange_rate.cache_duration", 60*time.Minute)
	v.SetDefault("exchange_rate.currencies", []string{"USD", "EUR", "GBP", "CNY", "AED", "SAR", "QAR", "KWD", "BHD", "OMR"})
	v.SetDefault("exchange_rate.refresh_batch_size", 5)
	v.SetDefault("exchange_rate.refresh_pause", 500*time.Millisecond)
	v.SetDefault("exchange_rate.demo_fallback", false)

	v.SetDefault("providers.exchangerate_api.name", "ExchangeRate-API")
	v.SetDefault("providers.exchangerate_api.base_url", "https://v6.exchangerate-api.com/v6")
	v.SetDefault("providers.fixer.name", "Fixer.io")
	v.SetDefault("providers.fixer.base_url", "http://data.fixer.io/api")
	v.SetDefault("providers.currency_api.name", "CurrencyAPI")
	v.SetDefault("providers.currency_api.base_url", "https://api.currencyapi.com/v3")
	v.SetDefault("providers.open_exchange_rates.name", "Open Exchange Rates")
	v.SetDefault("providers.open_exchange_rates.base_url", "https://openexchangerates.org/api")
	v.SetDefault("providers.currency_layer.name", "Currency Layer")
	v.SetDefault("providers.currency_layer.base_url", "http://apilayer.net/api")

	v.SetDefault("kafka.topic", "exchange-rates")
}

func bindEnv(v *viper.Viper) {
	// http server env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = v.BindEnv("db_server.enabled", "DB_ENABLED")
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")

	_ = v.BindEnv("exchange_rate.cache_duration", "EXCHANGE_RATE_CACHE_DURATION")
	_ = v.BindEnv("exchange_rate.currencies", "EXCHANGE_RATE_CURRENCIES")
	_ = v.BindEnv("exchange_rate.demo_fallback", "EXCHANGE_RATE_DEMO_FALLBACK")

	// provider api keys
	_ = v.BindEnv("providers.exchangerate_api.api_key", "EXCHANGE_RATE_API_KEY")
	_ = v.BindEnv("providers.fixer.api_key", "FIXER_API_KEY")
	_ = v.BindEnv("providers.currency_api.api_key", "CURRENCY_API_KEY")
	_ = v.BindEnv("providers.open_exchange_rates.api_key", "OPEN_EXCHANGE_RATES_API_KEY")
	_ = v.BindEnv("providers.currency_layer.api_key", "CURRENCY_LAYER_API_KEY")

	_ = v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	_ = v.BindEnv("kafka.topic", "KAFKA_TOPIC")
}

func (c *AppConfig) validate() error {
	if c.ExchangeRate.CacheDuration <= 0 {
		return fmt.Errorf("invalid config: exchange_rate.cache_duration must be positive, got %s", c.ExchangeRate.CacheDuration)
	}
	if len(c.ExchangeRate.Currencies) == 0 {
		return errors.New("invalid config: exchange_rate.currencies must not be empty")
	}
	switch c.Cache.Backend {
	case "memory", "ristretto":
	default:
		return fmt.Errorf("invalid config: unknown cache.backend %q", c.Cache.Backend)
	}
	return nil
}

func normalizeCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
