// Package config resolves where touchpos keeps its files and how it talks
// to the API, from defaults, the environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/touchpos/touchpos/common"
	"github.com/touchpos/touchpos/pkg/posapi"
)

// AppDirName is the directory created under the user's config directory.
const AppDirName = "TouchScreenPOS"

const (
	sessionFileName = "session.json"
	dumpFileName    = "last-create-representation.txt"
	logFileName     = "touch-debug.log"
)

// DefaultDownloadSlots bounds concurrent image downloads.
const DefaultDownloadSlots = 4

var (
	ErrEmptyDataDir    = errors.New("data directory is empty")
	ErrInvalidBaseURL  = errors.New("base URL must be an absolute http or https URL")
	ErrInvalidSlots    = errors.New("download slots must be at least 1")
	ErrInvalidTimeout  = errors.New("timeouts must be positive")
	ErrInvalidProxyURL = errors.New("proxy must be an absolute URL")
)

var userConfigDir = os.UserConfigDir

type Config struct {
	BaseURL string
	// DataDir holds everything below; the file paths are derived from it by
	// SetDataDir.
	DataDir     string
	SessionFile string
	ImageDir    string
	LogFile     string
	DumpFile    string

	APITimeout    time.Duration
	ImageTimeout  time.Duration
	DownloadSlots int

	Proxy       string
	SealSession bool
	Debug       bool
}

// DefaultDataDir returns <user config dir>/TouchScreenPOS.
func DefaultDataDir() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName), nil
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}
	c := &Config{
		BaseURL:       posapi.DefaultBaseURL,
		APITimeout:    posapi.DefaultTimeout,
		ImageTimeout:  posapi.DefaultMediaTimeout,
		DownloadSlots: DefaultDownloadSlots,
	}
	if err := c.SetDataDir(dir); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnv returns Default overridden by the TOUCHPOS_* variables.
func FromEnv() (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	c.BaseURL = common.GetEnv(common.BaseURLEnv, c.BaseURL)
	c.Proxy = common.GetEnv(common.ProxyEnv, c.Proxy)
	c.SealSession = common.GetEnvBool(common.SealSessionEnv, c.SealSession)
	c.Debug = common.GetEnvBool(common.DebugEnv, c.Debug)
	c.DownloadSlots = common.GetEnvInt(common.DownloadSlotsEnv, c.DownloadSlots)
	c.APITimeout = common.GetEnvDuration(common.APITimeoutEnv, c.APITimeout)
	if dir := common.GetEnv(common.DataDirEnv, ""); dir != "" {
		if err := c.SetDataDir(dir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SetDataDir makes dir absolute and derives every file location from it.
// Nothing is created on disk.
func (c *Config) SetDataDir(dir string) error {
	if dir == "" {
		return ErrEmptyDataDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	c.DataDir = abs
	c.SessionFile = filepath.Join(abs, sessionFileName)
	c.ImageDir = filepath.Join(abs, "cache", "images")
	c.LogFile = filepath.Join(abs, "logs", logFileName)
	c.DumpFile = filepath.Join(abs, dumpFileName)
	return nil
}

// KeyDir is where the file fallback for the session sealing key lives.
func (c *Config) KeyDir() string {
	return c.DataDir
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrEmptyDataDir
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}
	if c.Proxy != "" {
		p, err := url.Parse(c.Proxy)
		if err != nil || p.Scheme == "" || p.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidProxyURL, c.Proxy)
		}
	}
	if c.DownloadSlots < 1 {
		return ErrInvalidSlots
	}
	if c.APITimeout <= 0 || c.ImageTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
