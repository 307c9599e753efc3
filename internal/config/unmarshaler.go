package config

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/smykla-skalski/codemate/pkg/config"
)

// CustomDecoderConfig returns a mapstructure decoder config with hooks for
// Duration and ChatMode. The caller sets Result.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToDurationHookFunc(),
			stringToChatModeHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		TagName:          "koanf",
	}
}

//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeFor[config.Duration]() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			var d config.Duration
			if err := d.UnmarshalText([]byte(v)); err != nil {
				return nil, err
			}

			return d, nil

		case int64:
			return config.Duration(time.Duration(v)), nil

		case int:
			return config.Duration(time.Duration(v)), nil

		default:
			return data, nil
		}
	}
}

//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToChatModeHookFunc() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeFor[config.ChatMode]() {
			return data, nil
		}

		s, ok := data.(string)
		if !ok {
			return data, nil
		}

		var mode config.ChatMode
		if err := mode.UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}

		return mode, nil
	}
}
