package conf

import (
	"github.com/squareup/rangeplan/errors"
)

const (
	// DefaultMaxScanRangeLength is the largest scan range the planner will hand to the
	// executor before splitting a block. 128MiB matches the common block size so most
	// blocks map to exactly one range.
	DefaultMaxScanRangeLength    = 128 * 1024 * 1024
	DefaultMetricsHTTPListenAddr = "localhost:2112"
)

type Config struct {
	MaxScanRangeLength    int64  `json:"max_scan_range_length,omitempty"`
	EnableMetrics         bool   `json:"enable_metrics,omitempty"`
	MetricsHTTPListenAddr string `json:"metrics_http_listen_addr,omitempty"`
	LogFile               string `json:"log_file,omitempty"`
	LogLevel              string `json:"log_level,omitempty"`
	LogFormat             string `json:"log_format,omitempty"`
}

func (c *Config) Validate() error {
	// MaxScanRangeLength <= 0 means ranges are never split, which is a valid setting
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return errors.NewInvalidConfigurationError("LogFormat must be either text or json")
	}
	if c.EnableMetrics && c.MetricsHTTPListenAddr == "" {
		return errors.NewInvalidConfigurationError("MetricsHTTPListenAddr must be specified when EnableMetrics is true")
	}
	return nil
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxScanRangeLength:    DefaultMaxScanRangeLength,
		MetricsHTTPListenAddr: DefaultMetricsHTTPListenAddr,
	}
}
