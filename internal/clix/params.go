package clix

import (
	"time"

	"github.com/spf13/pflag"
)

// ArticleFields collects the article flags the user actually set, keyed by
// flag name, so that unset flags are reported as missing fields.
func ArticleFields(flags *pflag.FlagSet, names ...string) map[string]any {
	fields := make(map[string]any, len(names))
	for _, name := range names {
		if !flags.Changed(name) {
			continue
		}
		if v, err := flags.GetString(name); err == nil {
			fields[name] = v
		}
	}
	return fields
}

// String returns the flag value when it was set, otherwise fallback.
func String(flags *pflag.FlagSet, name, fallback string) string {
	if !flags.Changed(name) {
		return fallback
	}
	v, err := flags.GetString(name)
	if err != nil {
		return fallback
	}
	return v
}

func Float64(flags *pflag.FlagSet, name string, fallback float64) float64 {
	if !flags.Changed(name) {
		return fallback
	}
	v, err := flags.GetFloat64(name)
	if err != nil {
		return fallback
	}
	return v
}

func Duration(flags *pflag.FlagSet, name string, fallback time.Duration) time.Duration {
	if !flags.Changed(name) {
		return fallback
	}
	v, err := flags.GetDuration(name)
	if err != nil {
		return fallback
	}
	return v
}
