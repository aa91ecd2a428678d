package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoliveira/pushbell/internal/colors"
)

// rule normalizes a raw value. ok is false when the value is unusable.
type rule struct {
	expect string
	check  func(value string) (normalized string, ok bool)
}

func positiveInt() rule {
	return rule{
		expect: "a positive integer",
		check: func(v string) (string, bool) {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n <= 0 {
				return "", false
			}
			return strconv.Itoa(n), true
		},
	}
}

func oneOf(values ...string) rule {
	return rule{
		expect: "one of " + strings.Join(values, ", "),
		check: func(v string) (string, bool) {
			v = strings.ToLower(strings.TrimSpace(v))
			for _, allowed := range values {
				if v == allowed {
					return v, true
				}
			}
			return "", false
		},
	}
}

func boolean() rule {
	return rule{
		expect: "a boolean (true/false, yes/no, on/off, 1/0)",
		check: func(v string) (string, bool) {
			b, ok := parseBool(v)
			if !ok {
				return "", false
			}
			return strconv.FormatBool(b), true
		},
	}
}

var rules = map[string]rule{
	"platform":           oneOf("desktop", "tmux", "console"),
	"prompt":             oneOf("interactive", "grant", "deny"),
	"hooks_failure_mode": oneOf("ignore", "warn", "abort"),
	"logging_level":      oneOf("debug", "info", "warn", "error"),
	"logging_max_files":  positiveInt(),
	"tmux_display_ms":    positiveInt(),
	"hooks_enabled":      boolean(),
	"logging_enabled":    boolean(),
	"debug":              boolean(),
	"quiet":              boolean(),
}

// normalize returns the value to store for key. An empty or rejected value
// falls back to fallback; a rejection is reported as a warning.
func normalize(key, value, fallback string) string {
	r, ok := rules[key]
	if !ok {
		return value
	}
	if value == "" {
		return fallback
	}
	normalized, ok := r.check(value)
	if !ok {
		colors.Warning(fmt.Sprintf("config: %s=%q must be %s; using %q", key, value, r.expect, fallback))
		return fallback
	}
	return normalized
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
