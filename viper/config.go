// Package viper loads process configuration from TOML files and the
// environment.
package viper

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fwojciec/rustindexed"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding configuration keys,
// e.g. RUSTINDEXED_SERVER_ADDR.
const EnvPrefix = "RUSTINDEXED"

// Configuration defaults.
const (
	DefaultPageIndex  = "indexes/page.db"
	DefaultCodeIndex  = "indexes/code.db"
	DefaultServerAddr = "127.0.0.1:3000"
	DefaultBurst      = 10
)

// legacyFlags maps boolean source keys to the format they select.
var legacyFlags = map[string]rustindexed.SourceFormat{
	"is_html":   rustindexed.FormatHTML,
	"is_md":     rustindexed.FormatMarkdown,
	"is_mdbook": rustindexed.FormatMdBook,
}

// Load reads the TOML file at path, applies defaults and environment
// overrides, and validates the result. Returns ENOTFOUND if path does not
// exist and EINVALID for malformed or inconsistent settings.
func Load(path string) (*rustindexed.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, rustindexed.Errorf(rustindexed.ENOTFOUND, "config file %q not found", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetDefault("index.page", DefaultPageIndex)
	v.SetDefault("index.code", DefaultCodeIndex)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.burst", DefaultBurst)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, rustindexed.Errorf(rustindexed.EINVALID, "failed to read config file %s: %v", path, err)
	}

	var config rustindexed.Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			sourceSpecHookFunc(),
			stringToSourceFormatHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, rustindexed.Errorf(rustindexed.EINVALID, "invalid config: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// sourceSpecHookFunc resolves the format of a source table, converting the
// legacy is_html/is_md/is_mdbook flags into a single format value. Sources
// with neither default to mdbook.
func sourceSpecHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(rustindexed.SourceSpec{}) {
			return data, nil
		}
		raw, ok := data.(map[string]interface{})
		if !ok {
			return data, nil
		}

		out := make(map[string]interface{}, len(raw))
		var selected []rustindexed.SourceFormat
		present := false
		for k, val := range raw {
			format, legacy := legacyFlags[k]
			if !legacy {
				out[k] = val
				continue
			}
			present = true
			set, ok := val.(bool)
			if !ok {
				return nil, fmt.Errorf("source %v: %s must be a boolean", raw["title"], k)
			}
			if set {
				selected = append(selected, format)
			}
		}

		explicit, _ := out["format"].(string)
		switch {
		case len(selected) > 1:
			return nil, fmt.Errorf("source %v: more than one of is_html, is_md, is_mdbook set", raw["title"])
		case len(selected) == 1 && explicit != "" && !strings.EqualFold(strings.TrimSpace(explicit), string(selected[0])):
			return nil, fmt.Errorf("source %v: format %q conflicts with legacy flag for %s", raw["title"], explicit, selected[0])
		case len(selected) == 1:
			out["format"] = string(selected[0])
		case present && explicit == "":
			return nil, fmt.Errorf("source %v: no format selected", raw["title"])
		case explicit == "":
			out["format"] = string(rustindexed.FormatMdBook)
		}
		return out, nil
	}
}

func stringToSourceFormatHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(rustindexed.FormatUnknown) || f.Kind() != reflect.String {
			return data, nil
		}
		format, err := rustindexed.ParseSourceFormat(data.(string))
		if err != nil {
			return nil, errors.New(rustindexed.ErrorMessage(err))
		}
		return format, nil
	}
}
