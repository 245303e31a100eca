package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/skillcheck/internal/telemetry"
)

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, key string) {
	if v := getEnv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := getEnv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, v)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v := getEnv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", key, v)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	switch strings.ToLower(getEnv(key)) {
	case "":
		return nil
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	default:
		return fmt.Errorf("%s: %q is not a boolean", key, os.Getenv(key))
	}
	return nil
}

// setDuration accepts Go durations ("1500ms") or a bare number of seconds.
func setDuration(dst *time.Duration, key string) error {
	v := getEnv(key)
	if v == "" {
		return nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
		return nil
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = time.Duration(secs * float64(time.Second))
		return nil
	}
	return fmt.Errorf("%s: %q is not a duration", key, v)
}

// ParseHeadersEnv reads an OTLP-style header list from key.
func ParseHeadersEnv(key string) map[string]string {
	v := getEnv(key)
	if v == "" {
		return nil
	}
	return telemetry.ParseHeaders(v)
}
