package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/openfroyo/crudapi/pkg/telemetry"
)

// WatchTelemetry re-decodes the telemetry file whenever it is written and
// passes the result to onChange. It does nothing when no file is in use.
func WatchTelemetry(v *viper.Viper, onChange func(*telemetry.Config, error)) bool {
	if v == nil || v.ConfigFileUsed() == "" {
		return false
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(decodeTelemetry(v))
	})
	v.WatchConfig()
	return true
}
