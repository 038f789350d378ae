// Package config loads wrapdoc settings.
//
// Priority, highest first:
//  1. Environment variables with the WRAPDOC_ prefix (WRAPDOC_TAX_RATE)
//  2. The config file (--config, else wrapdoc.toml in the working directory
//     or the user config directory)
//  3. Built-in defaults
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/finance"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WRAPDOC"

// Config is the resolved application configuration.
type Config struct {
	Finance finance.Config
	Layout  LayoutConfig
	Profile string // shop profile path, empty for the built-in profile
	Assets  AssetsConfig
	Fonts   FontsConfig

	ImageGen ImageGenConfig
	Reviews  ReviewsConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Server   ServerConfig

	// File is the config file that was read, if any.
	File string
}

type LayoutConfig struct {
	Compress bool // deflate PDF streams
}

type AssetsConfig struct {
	Dir string // logo and emblem PNGs
}

type FontsConfig struct {
	Dirs []string // searched before the system font directory
}

type ImageGenConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type ReviewsConfig struct {
	Endpoint string        // empty disables the lookup
	Window   time.Duration // how long a fetched count is reused
}

type CacheConfig struct {
	Dir      string // file cache directory
	RedisURL string // when set, a redis cache is used instead
	TTL      time.Duration
}

type StorageConfig struct {
	S3 S3Config
}

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // custom endpoint for S3-compatible stores
	Prefix   string
}

type ServerConfig struct {
	Addr        string
	MaxBodySize int64
}

// Load reads configuration from path (or the default locations when path
// is empty), the environment and the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wrapdoc")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "wrapdoc"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// no config file is fine: defaults and environment apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if path != "" && os.IsNotExist(err) {
				return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return build(v)
}

// Default returns the built-in configuration, ignoring files and the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := build(v)
	if err != nil {
		// the defaults always validate
		panic(err)
	}
	return cfg
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Finance: finance.Config{
			TaxRatePct:              v.GetFloat64("tax.rate"),
			TaxNote:                 v.GetString("tax.note"),
			TaxStatute:              v.GetString("tax.statute"),
			ExemptStatute:           v.GetString("tax.exempt_statute"),
			MarginTargetPct:         v.GetFloat64("margin.target"),
			MarginBonusThresholdPct: v.GetFloat64("margin.bonus_threshold"),
			CommissionBaseRatePct:   v.GetFloat64("commission.base_rate"),
			DesignDeposit:           v.GetFloat64("deposit.design"),
		},
		Layout:  LayoutConfig{Compress: v.GetBool("layout.compress")},
		Profile: v.GetString("profile"),
		Assets:  AssetsConfig{Dir: v.GetString("assets.dir")},
		Fonts:   FontsConfig{Dirs: v.GetStringSlice("fonts.dirs")},
		ImageGen: ImageGenConfig{
			Endpoint: v.GetString("imagegen.endpoint"),
			APIKey:   v.GetString("imagegen.api_key"),
			Model:    v.GetString("imagegen.model"),
			Timeout:  v.GetDuration("imagegen.timeout"),
		},
		Reviews: ReviewsConfig{
			Endpoint: v.GetString("reviews.endpoint"),
			Window:   v.GetDuration("reviews.window"),
		},
		Cache: CacheConfig{
			Dir:      v.GetString("cache.dir"),
			RedisURL: v.GetString("cache.redis_url"),
			TTL:      v.GetDuration("cache.ttl"),
		},
		Storage: StorageConfig{S3: S3Config{
			Bucket:   v.GetString("storage.s3.bucket"),
			Region:   v.GetString("storage.s3.region"),
			Endpoint: v.GetString("storage.s3.endpoint"),
			Prefix:   v.GetString("storage.s3.prefix"),
		}},
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			MaxBodySize: v.GetInt64("server.max_body_size"),
		},
		File: v.ConfigFileUsed(),
	}

	if err := v.UnmarshalKey("commission.type_rates", &cfg.Finance.CommissionTypeRates); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "commission.type_rates")
	}
	if err := v.UnmarshalKey("commission.bonus_rates", &cfg.Finance.CommissionBonusRates); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "commission.bonus_rates")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	fin := finance.DefaultConfig()
	v.SetDefault("tax.rate", fin.TaxRatePct)
	v.SetDefault("tax.note", fin.TaxNote)
	v.SetDefault("tax.statute", fin.TaxStatute)
	v.SetDefault("tax.exempt_statute", fin.ExemptStatute)
	v.SetDefault("margin.target", fin.MarginTargetPct)
	v.SetDefault("margin.bonus_threshold", fin.MarginBonusThresholdPct)
	v.SetDefault("commission.base_rate", fin.CommissionBaseRatePct)
	v.SetDefault("commission.type_rates", fin.CommissionTypeRates)
	v.SetDefault("commission.bonus_rates", fin.CommissionBonusRates)
	v.SetDefault("deposit.design", fin.DesignDeposit)

	v.SetDefault("layout.compress", true)
	v.SetDefault("profile", "")
	v.SetDefault("assets.dir", "assets")
	v.SetDefault("fonts.dirs", []string{})

	v.SetDefault("imagegen.endpoint", "")
	v.SetDefault("imagegen.api_key", "")
	v.SetDefault("imagegen.model", "")
	v.SetDefault("imagegen.timeout", 90*time.Second)

	v.SetDefault("reviews.endpoint", "")
	v.SetDefault("reviews.window", 6*time.Hour)

	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-west-2")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.prefix", "documents/")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_body_size", int64(1<<20))
}

// Validate checks the finance policy and the durations.
func (c *Config) Validate() error {
	if err := c.Finance.Validate(); err != nil {
		return err
	}
	if c.Reviews.Window < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "reviews.window cannot be negative")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	if c.Server.MaxBodySize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_size must be positive")
	}
	return nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "wrapdoc")
	}
	return filepath.Join(os.TempDir(), "wrapdoc")
}
