// Package config provides configuration helpers for go-gaze commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default settings shared by the commands.
const (
	DefaultPort          = "8090"
	DefaultCollectorPort = "8091"
	DefaultPointer       = "pointer"
	DefaultThreshold     = 2.0
)

// String returns the value of env var key, or fallback if unset or empty.
func String(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Float returns env var key parsed as a float64, or fallback if unset.
// A value that does not parse is reported as an error.
func Float(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// Duration returns env var key parsed with time.ParseDuration, or fallback if unset.
func Duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Port returns the dashboard port from GAZE_PORT or the default.
func Port() string {
	return String("GAZE_PORT", DefaultPort)
}

// PointerName returns the pointer name from GAZE_POINTER or the default.
func PointerName() string {
	return String("GAZE_POINTER", DefaultPointer)
}

// Threshold returns the dwell threshold in seconds from GAZE_THRESHOLD or the default.
func Threshold() (float64, error) {
	return Float("GAZE_THRESHOLD", DefaultThreshold)
}

// CollectorURL returns the websocket URL of the collector from GAZE_COLLECTOR_URL.
// Empty means events are not relayed.
func CollectorURL() string {
	return os.Getenv("GAZE_COLLECTOR_URL")
}

// DashboardURL returns the local dashboard URL for a port.
func DashboardURL(port string) string {
	return fmt.Sprintf("http://localhost:%s", port)
}
