package config

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/sirkon/csense/internal/csrules"
)

// Cache memoizes option values per (unit, option) pair. It is safe for concurrent use:
// concurrent computations of the same key may race, but only one value survives.
type Cache struct {
	values sync.Map
}

type cacheKey struct {
	unit   string
	option string
}

// Value returns the memoized value of the option for the unit, computing it if needed.
func (c *Cache) Value(unit, option string, compute func() any) any {
	key := cacheKey{unit: unit, option: option}
	if v, ok := c.values.Load(key); ok {
		return v
	}

	v, _ := c.values.LoadOrStore(key, compute())
	return v
}

// Resolve builds options of the unit from its raw option map. Keys are case-insensitive.
func (c *Cache) Resolve(unit string, raw map[string]string) *Options {
	lowered := make(map[string]string, len(raw))
	for k, v := range raw {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}

	analyze := c.Value(unit, KeyAnalyzeInternal, func() any {
		return ParseBool(lowered[KeyAnalyzeInternal])
	}).(bool)
	terms := c.Value(unit, KeyLowQualityTerms, func() any {
		return ParseList(lowered[KeyLowQualityTerms])
	}).([]string)
	ignored := c.Value(unit, KeyIgnoredExceptions, func() any {
		return ParseList(lowered[KeyIgnoredExceptions])
	}).([]string)

	severities := map[csrules.Rule]csrules.Severity{}
	for _, r := range csrules.All() {
		key := SeverityKey(r)
		v := c.Value(unit, key, func() any {
			text, ok := lowered[key]
			if !ok {
				return severityOverride{}
			}
			sev, err := ParseSeverity(text)
			if err != nil {
				slog.Warn("ignore invalid severity override", slog.String("unit", unit), slog.String("key", key), slog.Any("err", err))
				return severityOverride{}
			}
			return severityOverride{set: true, severity: sev}
		}).(severityOverride)
		if v.set {
			severities[r] = v.severity
		}
	}

	return build(analyze, terms, ignored, severities)
}

type severityOverride struct {
	set      bool
	severity csrules.Severity
}
