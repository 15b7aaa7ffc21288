// Package config loads runtime configuration from a YAML file and SNIPER_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"genesis-sniper-lab/internal/cache"
	"genesis-sniper-lab/internal/sniper"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "config/config.yaml"

// EnvPrefix prefixes environment overrides, e.g. SNIPER_POSTGRES_DSN.
const EnvPrefix = "SNIPER"

// Config is the full runtime configuration.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	ClickHouse  ClickHouseConfig  `mapstructure:"clickhouse"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Scan        ScanConfig        `mapstructure:"scan"`
	LaunchBlock LaunchBlockConfig `mapstructure:"launchblock"`

	v *viper.Viper
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"` // empty disables the JSON log file
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type ClickHouseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"` // empty disables the cache
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type StorageConfig struct {
	UseMemory bool `mapstructure:"use_memory"`
}

// EngineConfig mirrors sniper.Config.
type EngineConfig struct {
	VolumeThreshold   float64       `mapstructure:"volume_threshold"`
	ChunkWindow       time.Duration `mapstructure:"chunk_window"`
	FeeThreshold      float64       `mapstructure:"fee_threshold"`
	LaunchGraceBlocks int64         `mapstructure:"launch_grace_blocks"`
	QuickExitWindow   time.Duration `mapstructure:"quick_exit_window"`
	SellMatchBasis    string        `mapstructure:"sell_match_basis"`
	WalletWorkers     int           `mapstructure:"wallet_workers"`
}

type ScanConfig struct {
	TokenWorkers int    `mapstructure:"token_workers"`
	OutputDir    string `mapstructure:"output_dir"`
}

type LaunchBlockConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

func defaults() map[string]any {
	engine := sniper.DefaultConfig()
	return map[string]any{
		"log.level":                  "info",
		"log.dir":                    "",
		"http.addr":                  ":8080",
		"postgres.dsn":               "",
		"clickhouse.dsn":             "",
		"redis.addr":                 "",
		"redis.password":             "",
		"redis.db":                   0,
		"redis.ttl":                  cache.DefaultTTL,
		"storage.use_memory":         false,
		"engine.volume_threshold":    engine.VolumeThreshold,
		"engine.chunk_window":        engine.ChunkWindow,
		"engine.fee_threshold":       engine.FeeThreshold,
		"engine.launch_grace_blocks": engine.LaunchGraceBlocks,
		"engine.quick_exit_window":   engine.QuickExitWindow,
		"engine.sell_match_basis":    string(engine.SellMatchBasis),
		"engine.wallet_workers":      engine.WalletWorkers,
		"scan.token_workers":         4,
		"scan.output_dir":            "reports",
		"launchblock.cache_ttl":      10 * time.Minute,
	}
}

// Load reads path (DefaultPath when empty) over the defaults and applies env
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.v = v

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unusable values.
func (c *Config) Validate() error {
	if c.Scan.TokenWorkers <= 0 {
		return errors.New("invalid scan.token_workers")
	}
	if c.LaunchBlock.CacheTTL <= 0 {
		return errors.New("invalid launchblock.cache_ttl")
	}
	if c.Redis.TTL <= 0 {
		return errors.New("invalid redis.ttl")
	}
	if err := c.Sniper().Validate(); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	return nil
}

// Sniper returns the engine policy.
func (c *Config) Sniper() sniper.Config {
	cfg := sniper.DefaultConfig()
	cfg.VolumeThreshold = c.Engine.VolumeThreshold
	cfg.ChunkWindow = c.Engine.ChunkWindow
	cfg.FeeThreshold = c.Engine.FeeThreshold
	cfg.LaunchGraceBlocks = c.Engine.LaunchGraceBlocks
	cfg.QuickExitWindow = c.Engine.QuickExitWindow
	cfg.SellMatchBasis = sniper.SellMatchBasis(strings.ToLower(strings.TrimSpace(c.Engine.SellMatchBasis)))
	cfg.WalletWorkers = c.Engine.WalletWorkers
	return cfg
}

// Cache returns the redis cache settings. An empty address disables it.
func (c *Config) Cache() cache.Config {
	return cache.Config{
		Enabled:  c.Redis.Addr != "",
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TTL:      c.Redis.TTL,
	}
}

// Watch re-reads the config file on change and hands valid results to
// onChange. Invalid edits are reported through onError and otherwise ignored.
func (c *Config) Watch(onChange func(*Config), onError func(error)) {
	if c.v == nil {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(c.v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(next)
	})
	c.v.WatchConfig()
}
