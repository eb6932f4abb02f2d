package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// envOr parses key with parse and falls back to def when unset or unparsable.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func getEnvAsString(key string, defaultVal string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	return envOr(key, defaultVal, strconv.Atoi)
}

func getEnvAsBool(key string, defaultVal bool) bool {
	return envOr(key, defaultVal, strconv.ParseBool)
}

// getEnvAsTimeDuration accepts Go duration strings ("15s", "2h") or a bare number of seconds.
func getEnvAsTimeDuration(key string, defaultVal time.Duration) time.Duration {
	return envOr(key, defaultVal, func(s string) (time.Duration, error) {
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
		n, err := strconv.Atoi(s)
		return time.Duration(n) * time.Second, err
	})
}

var byteUnits = []struct {
	suffix string
	shift  uint
}{
	{"GB", 30}, {"MB", 20}, {"KB", 10}, {"B", 0},
}

// getEnvAsBytes reads sizes such as "5MB", "512KB" or a plain byte count.
func getEnvAsBytes(key string, defaultVal int64) int64 {
	return envOr(key, defaultVal, parseBytes)
}

func parseBytes(s string) (int64, error) {
	upper := strings.ToUpper(s)
	if head, found := strings.CutSuffix(upper, "IB"); found {
		upper = head + "B"
	}
	for _, u := range byteUnits {
		if num, found := strings.CutSuffix(upper, u.suffix); found {
			n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
			return n << u.shift, err
		}
	}
	return strconv.ParseInt(upper, 10, 64)
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}

	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
