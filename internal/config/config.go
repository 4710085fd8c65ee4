// Package config loads storefront settings from defaults, an optional JSON
// file and STOREFRONT_ environment variables, in increasing priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates levels: STOREFRONT_LOG__LEVEL sets log.level.
const EnvPrefix = "STOREFRONT_"

// Config is the full storefront configuration.
type Config struct {
	Catalog  CatalogConfig `json:"catalog"`
	Currency string        `json:"currency" validate:"required"`
	Assets   AssetsConfig  `json:"assets"`
	Log      LogConfig     `json:"log"`
}

// CatalogConfig lists catalog sources in fallback order.
type CatalogConfig struct {
	Sources []string `json:"sources" validate:"required,min=1,dive,required"`
	Timeout string   `json:"timeout" validate:"required,duration"`
}

// TimeoutDuration parses Timeout. Validation guarantees it parses.
func (c CatalogConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// AssetsConfig locates product images.
type AssetsConfig struct {
	Base          string `json:"base" validate:"required"`
	DefaultBanner string `json:"default_banner" validate:"required"`
}

// Resolver returns the image resolver for these settings.
func (c AssetsConfig) Resolver() catalog.Assets {
	return catalog.Assets{Base: c.Base, DefaultBanner: c.DefaultBanner}
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `json:"level" validate:"required,oneof=panic fatal error warn warning info debug trace"`
	File  string `json:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Sources: append([]string(nil), api.DefaultSources...),
			Timeout: "15s",
		},
		Currency: "AED",
		Assets: AssetsConfig{
			Base:          catalog.DefaultAssets.Base,
			DefaultBanner: catalog.DefaultAssets.DefaultBanner,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Error reports a configuration that could not be loaded. Path is empty
// when no file was named.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Load builds the configuration. An empty path skips the file layer; a
// named file must exist. Every failure is an *Error.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "json"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKeyValue maps STOREFRONT_CATALOG__SOURCES to catalog.sources. List
// values are comma separated.
func envKeyValue(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "catalog.sources" {
		var sources []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		return key, sources
	}
	return key, value
}
