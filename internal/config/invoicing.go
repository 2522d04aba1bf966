package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// InvoicingConfig holds user-tunable invoice defaults. Reloaded live from
// invoicing.yml when the file changes.
type InvoicingConfig struct {
	NumberPrefix   string `mapstructure:"numberPrefix"`
	NumberPad      int    `mapstructure:"numberPad"`
	CurrencySymbol string `mapstructure:"currencySymbol"`
	NetDays        int    `mapstructure:"netDays"`
	DefaultTerms   string `mapstructure:"defaultTerms"`
	DefaultFooter  string `mapstructure:"defaultFooter"`
	SeedItem       string `mapstructure:"seedItem"`
	SellerName     string `mapstructure:"sellerName"`
	SellerAddress  string `mapstructure:"sellerAddress"`
	SellerEmail    string `mapstructure:"sellerEmail"`
	SellerPhone    string `mapstructure:"sellerPhone"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		NumberPrefix:   "INV-",
		NumberPad:      3,
		CurrencySymbol: "$",
		NetDays:        7,
		DefaultTerms:   "Payment is due within 15 days.",
		DefaultFooter:  "Thank you for your business",
		SeedItem:       "New Item",
	}
}

type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

func NewInvoicingConfigHolder() (*InvoicingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("invoicing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/invoicify")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INVOICIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvoicingConfig()
	v.SetDefault("invoicing.numberPrefix", defaults.NumberPrefix)
	v.SetDefault("invoicing.numberPad", defaults.NumberPad)
	v.SetDefault("invoicing.currencySymbol", defaults.CurrencySymbol)
	v.SetDefault("invoicing.netDays", defaults.NetDays)
	v.SetDefault("invoicing.defaultTerms", defaults.DefaultTerms)
	v.SetDefault("invoicing.defaultFooter", defaults.DefaultFooter)
	v.SetDefault("invoicing.seedItem", defaults.SeedItem)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg InvoicingConfig
	if err := v.UnmarshalKey("invoicing", &cfg); err != nil {
		return nil, err
	}
	if err := validateInvoicingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated InvoicingConfig
		if err := v.UnmarshalKey("invoicing", &updated); err != nil {
			log.Printf("[invoicing-config] reload failed: %v", err)
			return
		}
		if err := validateInvoicingConfig(updated); err != nil {
			log.Printf("[invoicing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[invoicing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *InvoicingConfigHolder) Get() InvoicingConfig {
	return h.current.Load().(InvoicingConfig)
}

// NewStaticInvoicingConfigHolder wraps a fixed config, used in tests.
func NewStaticInvoicingConfigHolder(cfg InvoicingConfig) *InvoicingConfigHolder {
	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateInvoicingConfig(cfg InvoicingConfig) error {
	if strings.TrimSpace(cfg.NumberPrefix) == "" {
		return errors.New("invoicing.numberPrefix cannot be empty")
	}
	if cfg.NumberPad <= 0 {
		return errors.New("invoicing.numberPad must be positive")
	}
	if cfg.NetDays < 0 {
		return errors.New("invoicing.netDays cannot be negative")
	}
	return nil
}
