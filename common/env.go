// Package common holds names and helpers shared by the touchpos binary and
// its internal packages.
package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names for configuration.
const (
	// BaseURLEnv overrides the API origin.
	BaseURLEnv = "TOUCHPOS_BASE_URL"

	// DataDirEnv overrides the per-user data directory.
	DataDirEnv = "TOUCHPOS_DATA_DIR"

	// ProxyEnv sets an http, https or socks5 proxy for every request.
	ProxyEnv = "TOUCHPOS_PROXY"

	// SealSessionEnv enables encryption of the session snapshot.
	SealSessionEnv = "TOUCHPOS_SEAL_SESSION"

	// DebugEnv enables debug logging.
	DebugEnv = "TOUCHPOS_DEBUG"

	// DownloadSlotsEnv bounds concurrent image downloads.
	DownloadSlotsEnv = "TOUCHPOS_DOWNLOAD_SLOTS"

	// APITimeoutEnv bounds every API call, as a Go duration ("15s").
	APITimeoutEnv = "TOUCHPOS_API_TIMEOUT"
)

// GetEnv returns the value of key, or def when it is unset or blank.
func GetEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetEnvBool reads key as a boolean ("1", "true", "yes", "on"). Unset or
// unparsable values yield def.
func GetEnvBool(key string, def bool) bool {
	v := strings.ToLower(GetEnv(key, ""))
	switch v {
	case "":
		return def
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetEnvInt reads key as a decimal integer. Unset or unparsable values
// yield def.
func GetEnvInt(key string, def int) int {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetEnvDuration reads key with time.ParseDuration. Unset or unparsable
// values yield def.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
