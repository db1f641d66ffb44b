package cmd

import (
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/selector"
)

type configSnapshot struct {
	config selector.Config
	err    error
}

// providerConfig keeps the last decoded provider settings. Viper is only read
// on construction and from its own watcher goroutine, selections read the
// snapshot.
type providerConfig struct {
	v       *viper.Viper
	current atomic.Pointer[configSnapshot]
}

func newProviderConfig(v *viper.Viper) *providerConfig {
	pc := &providerConfig{v: v}
	cfg, err := selectorConfig(v)
	pc.current.Store(&configSnapshot{config: cfg, err: err})
	return pc
}

// Load returns the current snapshot. It has the selector.ConfigSource shape.
func (pc *providerConfig) Load() (selector.Config, error) {
	s := pc.current.Load()
	return s.config, s.err
}

// reload decodes the config again. A config that fails to decode leaves the
// previous snapshot in place.
func (pc *providerConfig) reload() error {
	cfg, err := selectorConfig(pc.v)
	if err != nil {
		return err
	}
	pc.current.Store(&configSnapshot{config: cfg})
	return nil
}

// watch reloads the snapshot whenever the config file changes and calls
// onChange after every successful reload.
func (pc *providerConfig) watch(log *zap.Logger, onChange func()) {
	pc.v.OnConfigChange(func(e fsnotify.Event) {
		log := log.With(zap.String("file", e.Name), zap.String("op", e.Op.String()))
		if err := pc.reload(); err != nil {
			log.Warn("config file changed but could not be applied, keeping the previous settings", zap.Error(err))
			return
		}
		log.Info("config file changed, resetting provider")
		onChange()
	})
	pc.v.WatchConfig()
}
