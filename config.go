package cymometer

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultNamespace prefixes counter keys when neither the counter nor
	// the process defaults name one.
	DefaultNamespace = "cym"
	// DefaultLimit admits one event per window.
	DefaultLimit = 1
	// DefaultWindow is the trailing span events are counted over when the
	// counter does not declare one.
	DefaultWindow = time.Hour
)

// CounterConfig describes one counter. The zero value is usable once a
// process-default store is installed: it yields a single-slot, one-hour
// counter under a random identifier.
type CounterConfig struct {
	// ID names the logical counter within its namespace. When empty, a
	// random identifier is generated, which makes the counter effectively
	// private to this process — nothing else can compute the same key.
	// Shared limits require an explicit ID.
	ID string

	// Namespace prefixes the key as "namespace:id". Empty falls back to
	// the process default, then [DefaultNamespace].
	Namespace string

	// Limit is the maximum number of admitted events per window. Zero
	// falls back to [DefaultLimit]; negative is rejected.
	Limit int64

	// Window is the trailing span events are counted over. It must be a
	// whole number of seconds: the key's store-side TTL has second
	// resolution, and a finer window would let the TTL undercut it. Zero
	// falls back to [DefaultWindow].
	Window time.Duration

	// Store overrides the process-default backing store.
	Store Store

	// Logger overrides the process-default logger. Only the compensating-
	// decrement failure path of [Counter.Do] logs.
	Logger *zap.Logger

	// Metrics overrides the process-default metrics sink. Nil disables.
	Metrics *Metrics
}

func (cfg CounterConfig) withDefaults(d Defaults) CounterConfig {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = d.Namespace
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Limit == 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Window == 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Store == nil {
		cfg.Store = d.Store
	}
	if cfg.Logger == nil {
		cfg.Logger = d.Logger
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = d.Metrics
	}
	return cfg
}

// validate runs after defaults are applied.
func (cfg CounterConfig) validate() error {
	if cfg.Limit < 0 {
		return errors.New("limit must be positive")
	}
	if cfg.Window < 0 {
		return errors.New("window must be positive")
	}
	if cfg.Window%time.Second != 0 {
		return errors.New("window must be a whole number of seconds")
	}
	if cfg.Store == nil {
		return ErrStoreNotConfigured
	}
	return nil
}
