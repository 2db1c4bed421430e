package cards

import (
    "fmt"
    "strings"
    "time"

    "github.com/spf13/viper"
)

const DefaultEnvPrefix = "CARDS"

// Store backends.
const (
    BackendFile = "file"
    BackendMem  = "mem"
    BackendPG   = "pg"
)

// Config is a configuration for the cards application
type Config struct {
    HTTPAddr string `mapstructure:"http_addr"`
    // StoreBackend selects where the cards document lives: file, mem or pg.
    StoreBackend string `mapstructure:"store_backend"`
    // DataFile is the JSON document path for the file backend.
    DataFile string `mapstructure:"data_file"`
    // DBDSN is the Postgres connection string for the pg backend.
    DBDSN string `mapstructure:"db_dsn"`
    // DocumentName is the row key of the cards document in the pg backend.
    DocumentName string `mapstructure:"document_name"`
    // ExpiryTZ is an IANA timezone name used to derive the current year (e.g., "Australia/Sydney").
    ExpiryTZ string `mapstructure:"expiry_tz"`

    LogLevel  string `mapstructure:"log_level"`
    LogFormat string `mapstructure:"log_format"`

    // RateLimit is the allowed requests per second across the API; 0 disables limiting.
    RateLimit float64 `mapstructure:"rate_limit"`
    RateBurst int     `mapstructure:"rate_burst"`

    ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
    ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

func DefaultConfig() *Config {
    return &Config{
        HTTPAddr:          "localhost:3000",
        StoreBackend:      BackendFile,
        DataFile:          "data.json",
        DocumentName:      "cards",
        ExpiryTZ:          "UTC",
        LogLevel:          "info",
        LogFormat:         "text",
        RateBurst:         20,
        ReadHeaderTimeout: 5 * time.Second,
        ShutdownTimeout:   10 * time.Second,
    }
}

// LoadConfig reads CARDS_* environment variables over DefaultConfig.
func LoadConfig() (*Config, error) {
    v := viper.NewWithOptions(
        viper.KeyDelimiter("."),
        viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
    )
    v.SetEnvPrefix(DefaultEnvPrefix)
    v.AutomaticEnv()

    def := DefaultConfig()
    v.SetDefault("http_addr", def.HTTPAddr)
    v.SetDefault("store_backend", def.StoreBackend)
    v.SetDefault("data_file", def.DataFile)
    v.SetDefault("db_dsn", def.DBDSN)
    v.SetDefault("document_name", def.DocumentName)
    v.SetDefault("expiry_tz", def.ExpiryTZ)
    v.SetDefault("log_level", def.LogLevel)
    v.SetDefault("log_format", def.LogFormat)
    v.SetDefault("rate_limit", def.RateLimit)
    v.SetDefault("rate_burst", def.RateBurst)
    v.SetDefault("read_header_timeout", def.ReadHeaderTimeout)
    v.SetDefault("shutdown_timeout", def.ShutdownTimeout)

    cfg := &Config{}
    if err := v.Unmarshal(cfg); err != nil {
        return nil, fmt.Errorf("failed to load configuration: %w", err)
    }
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
    var errs []string

    switch c.StoreBackend {
    case BackendFile:
        if c.DataFile == "" {
            errs = append(errs, "data_file is required for file backend")
        }
    case BackendPG:
        if c.DBDSN == "" {
            errs = append(errs, "db_dsn is required for pg backend")
        }
        if c.DocumentName == "" {
            errs = append(errs, "document_name is required for pg backend")
        }
    case BackendMem:
    default:
        errs = append(errs, fmt.Sprintf("unsupported store_backend=%q", c.StoreBackend))
    }

    if c.ExpiryTZ != "" {
        if _, err := time.LoadLocation(c.ExpiryTZ); err != nil {
            errs = append(errs, fmt.Sprintf("invalid expiry_tz=%q", c.ExpiryTZ))
        }
    }

    switch strings.ToLower(c.LogLevel) {
    case "debug", "info", "warn", "error":
    default:
        errs = append(errs, fmt.Sprintf("log_level (%q) must be one of: debug, info, warn, error", c.LogLevel))
    }
    switch strings.ToLower(c.LogFormat) {
    case "text", "json":
    default:
        errs = append(errs, fmt.Sprintf("log_format (%q) must be one of: text, json", c.LogFormat))
    }

    if c.RateLimit < 0 {
        errs = append(errs, "rate_limit must be non-negative")
    }
    if c.RateLimit > 0 && c.RateBurst <= 0 {
        errs = append(errs, "rate_burst must be positive when rate limiting is enabled")
    }
    if c.ShutdownTimeout <= 0 {
        errs = append(errs, "shutdown_timeout must be positive")
    }

    if len(errs) > 0 {
        return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
    }
    return nil
}
