package config

import (
	"errors"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RatesConfig carries the statutory figures the bookkeeping reports and
// trip allowances depend on. They change at year boundaries, so they live
// in a reloadable rates.yml instead of code.
type RatesConfig struct {
	// VATBuckets are the VAT rates (percent) reports aggregate over.
	VATBuckets []float64 `mapstructure:"vatBuckets"`
	// Trip allowance per day, in cents.
	TripAllowanceFullCents int64 `mapstructure:"tripAllowanceFullCents"`
	TripAllowanceHalfCents int64 `mapstructure:"tripAllowanceHalfCents"`
}

// DefaultRatesConfig returns the 2026 Finnish figures used when no
// rates.yml is present.
func DefaultRatesConfig() RatesConfig {
	return RatesConfig{
		VATBuckets:             []float64{0, 10, 14, 25.5},
		TripAllowanceFullCents: 5300,
		TripAllowanceHalfCents: 2400,
	}
}

// RatesHolder exposes the current rates and swaps them atomically when
// rates.yml changes on disk.
type RatesHolder struct {
	current atomic.Value // holds RatesConfig
}

func NewRatesHolder(cfg Config, log *zap.Logger) (*RatesHolder, error) {
	v := viper.New()

	v.SetConfigName("rates")
	v.SetConfigType("yml")
	if cfg.RatesPath != "" {
		v.AddConfigPath(cfg.RatesPath)
	}
	v.AddConfigPath("/etc/tyoukkoset")
	v.AddConfigPath(".")

	holder := &RatesHolder{}
	holder.current.Store(DefaultRatesConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		return holder, nil
	}

	if err := holder.apply(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(fsnotify.Event) {
		if err := holder.apply(v); err != nil {
			log.Warn("rates reload failed", zap.Error(err))
		}
	})
	v.WatchConfig()

	return holder, nil
}

func (h *RatesHolder) apply(v *viper.Viper) error {
	cfg := DefaultRatesConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return err
	}
	if len(cfg.VATBuckets) == 0 {
		cfg.VATBuckets = DefaultRatesConfig().VATBuckets
	}
	h.current.Store(cfg)
	return nil
}

// Current returns the active rates snapshot.
func (h *RatesHolder) Current() RatesConfig {
	return h.current.Load().(RatesConfig)
}

// StaticRatesHolder builds a holder pinned to the given config. Used in
// tests and anywhere file watching is unwanted.
func StaticRatesHolder(cfg RatesConfig) *RatesHolder {
	holder := &RatesHolder{}
	holder.current.Store(cfg)
	return holder
}
