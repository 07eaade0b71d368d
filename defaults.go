package cymometer

import (
	"sync"

	"go.uber.org/zap"
)

// Defaults carries the process-wide fallbacks read by every counter at
// construction time. Install them once during startup, before the first
// counter is built; counters never re-read them afterwards.
type Defaults struct {
	// Namespace used by counters that do not name one.
	Namespace string
	// Store used by counters that are not handed one explicitly.
	Store Store
	// Logger used by counters that are not handed one. Nil means no
	// logging (zap.NewNop).
	Logger *zap.Logger
	// Metrics sink shared by counters that are not handed one. Nil
	// disables metrics.
	Metrics *Metrics
}

var (
	defaultsMu      sync.RWMutex
	processDefaults Defaults
)

// SetDefaults replaces the process-wide defaults wholesale. It is the
// single initialization point for shared configuration; there is no
// merge — pass the complete set.
func SetDefaults(d Defaults) {
	defaultsMu.Lock()
	processDefaults = d
	defaultsMu.Unlock()
}

func currentDefaults() Defaults {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return processDefaults
}
