package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// StoreAccount maps a store code to an Adyen merchant account.
type StoreAccount struct {
	Code    string `mapstructure:"code"`
	Account string `mapstructure:"account"`
}

// AccountConfig is the merchant account resolution configuration.
type AccountConfig struct {
	DefaultAccount string         `mapstructure:"default_account"`
	Stores         []StoreAccount `mapstructure:"stores"`
}

// StoreAccountMap returns the store code to merchant account map.
func (c AccountConfig) StoreAccountMap() map[string]string {
	out := make(map[string]string, len(c.Stores))
	for _, s := range c.Stores {
		out[s.Code] = s.Account
	}
	return out
}

// AccountConfigHolder keeps the latest valid AccountConfig and notifies listeners on reload.
type AccountConfigHolder struct {
	current atomic.Value // holds AccountConfig

	mu        sync.Mutex
	listeners []func(AccountConfig)
}

const defaultAccountKey = "merchant_accounts.default_account"

// NewAccountConfigHolder reads merchant_accounts.yml (or MERCHANT_ACCOUNTS_FILE) and watches it for changes.
// ADYEN_MERCHANT_ACCOUNTS_DEFAULT_ACCOUNT overrides the file's default account.
// Without either, the default account comes from ADYEN_DEFAULT_MERCHANT_ACCOUNT.
func NewAccountConfigHolder(cfg Config) (*AccountConfigHolder, error) {
	v := viper.New()

	if cfg.Adyen.MerchantAccountsFile != "" {
		v.SetConfigFile(cfg.Adyen.MerchantAccountsFile)
	} else {
		v.SetConfigName("merchant_accounts")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/solidus-adyen")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ADYEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(defaultAccountKey, "ADYEN_MERCHANT_ACCOUNTS_DEFAULT_ACCOUNT"); err != nil {
		return nil, err
	}
	v.SetDefault(defaultAccountKey, cfg.Adyen.DefaultMerchantAccount)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfg.Adyen.MerchantAccountsFile != "" {
			return nil, fmt.Errorf("read merchant accounts config: %w", err)
		}
		fileLoaded = false
	}

	loaded, err := decodeAccountConfig(v, cfg.Adyen.DefaultMerchantAccount)
	if err != nil {
		return nil, err
	}

	holder := &AccountConfigHolder{}
	holder.current.Store(loaded)

	if fileLoaded {
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeAccountConfig(v, cfg.Adyen.DefaultMerchantAccount)
			if err != nil {
				zap.L().Warn("merchant accounts reload ignored",
					zap.String("file", e.Name),
					zap.Error(err),
				)
				return
			}
			holder.Set(updated)
			zap.L().Info("merchant accounts reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return holder, nil
}

// NewStaticAccountConfigHolder wraps a fixed configuration.
func NewStaticAccountConfigHolder(cfg AccountConfig) *AccountConfigHolder {
	holder := &AccountConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *AccountConfigHolder) Get() AccountConfig {
	return h.current.Load().(AccountConfig)
}

// Set stores cfg and calls every registered listener.
func (h *AccountConfigHolder) Set(cfg AccountConfig) {
	h.current.Store(cfg)

	h.mu.Lock()
	listeners := append([]func(AccountConfig){}, h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(cfg)
	}
}

// OnChange registers fn to be called after each successful reload.
func (h *AccountConfigHolder) OnChange(fn func(AccountConfig)) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

func decodeAccountConfig(v *viper.Viper, fallbackDefault string) (AccountConfig, error) {
	var cfg AccountConfig
	if err := v.UnmarshalKey("merchant_accounts", &cfg); err != nil {
		return AccountConfig{}, err
	}
	// nested env bindings are not merged by UnmarshalKey
	cfg.DefaultAccount = strings.TrimSpace(v.GetString(defaultAccountKey))
	if cfg.DefaultAccount == "" {
		cfg.DefaultAccount = strings.TrimSpace(fallbackDefault)
	}
	for i := range cfg.Stores {
		cfg.Stores[i].Code = strings.TrimSpace(cfg.Stores[i].Code)
		cfg.Stores[i].Account = strings.TrimSpace(cfg.Stores[i].Account)
	}
	if err := validateAccountConfig(cfg); err != nil {
		return AccountConfig{}, err
	}
	return cfg, nil
}

func validateAccountConfig(cfg AccountConfig) error {
	if cfg.DefaultAccount == "" {
		return errors.New("merchant_accounts.default_account cannot be empty")
	}
	seen := make(map[string]struct{}, len(cfg.Stores))
	for _, s := range cfg.Stores {
		if s.Code == "" || s.Account == "" {
			return errors.New("merchant_accounts.stores entries need code and account")
		}
		if _, ok := seen[s.Code]; ok {
			return fmt.Errorf("merchant_accounts.stores has duplicate code %q", s.Code)
		}
		seen[s.Code] = struct{}{}
	}
	return nil
}
