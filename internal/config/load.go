package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults of CLI settings.
const (
	DefaultConfigFile = "csense.yaml"
	DefaultFormat     = "text"
	EnvPrefix         = "CSENSE_"
)

// Settings are CLI settings merged from defaults, config file, environment and flags.
type Settings struct {
	Jobs    int    `koanf:"jobs"`
	Format  string `koanf:"format"`
	Verbose bool   `koanf:"verbose"`

	// Options are comment_sense.* values. They override options of analyzed units.
	Options map[string]string `koanf:"-"`

	// File is the config file used, empty if there was none.
	File string `koanf:"-"`
}

// flagKeys maps CLI flags to settings keys.
var flagKeys = map[string]string{
	"jobs":               "jobs",
	"format":             "format",
	"verbose":            "verbose",
	"analyze-internal":   KeyAnalyzeInternal,
	"low-quality-terms":  KeyLowQualityTerms,
	"ignored-exceptions": KeyIgnoredExceptions,
}

// Load loads settings.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// An explicit config file must exist, the default one is optional.
func Load(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"jobs":    0,
		"format":  DefaultFormat,
		"verbose": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			used = DefaultConfigFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", used, err)
		}
	}

	// CSENSE_JOBS -> jobs, CSENSE_COMMENT_SENSE__ANALYZE_INTERNAL -> comment_sense.analyze_internal
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, known := flagKeys[f.Name]
			if !known || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if s.Jobs < 0 {
		return nil, fmt.Errorf("invalid jobs count %d", s.Jobs)
	}
	s.File = used
	s.Options = optionValues(k.All())

	return &s, nil
}

// optionValues picks comment_sense.* keys and renders their values the way
// hosts pass options: lists as comma-separated strings.
func optionValues(all map[string]interface{}) map[string]string {
	res := map[string]string{}
	for key, v := range all {
		lowered := strings.ToLower(key)
		if !strings.HasPrefix(lowered, Prefix) {
			continue
		}
		res[lowered] = render(v)
	}

	return res
}

func render(v interface{}) string {
	switch vv := v.(type) {
	case []interface{}:
		items := make([]string, len(vv))
		for i, item := range vv {
			items[i] = render(item)
		}
		return strings.Join(items, ",")
	case []string:
		return strings.Join(vv, ",")
	case nil:
		return ""
	default:
		return fmt.Sprint(vv)
	}
}

// Merge overlays overrides on top of unit options. The result is a new map.
func Merge(unit, overrides map[string]string) map[string]string {
	res := make(map[string]string, len(unit)+len(overrides))
	for k, v := range unit {
		res[strings.ToLower(k)] = v
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		res[strings.ToLower(k)] = overrides[k]
	}

	return res
}
