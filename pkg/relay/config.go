package relay

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds relay client settings
type Config struct {
	// URL is the collector base URL, e.g. ws://localhost:8091
	URL string

	// PointerID names this pointer on the collector
	PointerID string

	// QueueSize bounds the outbound message queue
	QueueSize int

	// MinBackoff and MaxBackoff bound the reconnect delay
	MinBackoff time.Duration
	MaxBackoff time.Duration

	// PingInterval is how often a protocol ping is sent to measure latency
	PingInterval time.Duration
}

// DefaultConfig returns relay settings for the given collector and pointer
func DefaultConfig(collectorURL, pointerID string) Config {
	return Config{
		URL:          collectorURL,
		PointerID:    pointerID,
		QueueSize:    256,
		MinBackoff:   250 * time.Millisecond,
		MaxBackoff:   10 * time.Second,
		PingInterval: 15 * time.Second,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.PointerID == "" {
		return fmt.Errorf("relay: pointer id is required")
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("relay: queue size must be positive, got %d", c.QueueSize)
	}
	if c.MinBackoff <= 0 || c.MaxBackoff < c.MinBackoff {
		return fmt.Errorf("relay: invalid backoff %v..%v", c.MinBackoff, c.MaxBackoff)
	}
	if c.PingInterval <= 0 {
		return fmt.Errorf("relay: ping interval must be positive, got %v", c.PingInterval)
	}
	_, err := c.streamURL()
	return err
}

// streamURL is the websocket endpoint for this pointer
func (c Config) streamURL() (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("relay: bad collector url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("relay: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/pointer/" + url.PathEscape(c.PointerID)
	return u.String(), nil
}

// healthURL is the collector's HTTP health endpoint
func (c Config) healthURL() (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("relay: bad collector url: %w", err)
	}
	switch u.Scheme {
	case "ws", "http":
		u.Scheme = "http"
	case "wss", "https":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("relay: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/health"
	return u.String(), nil
}

// nextBackoff doubles d up to max
func nextBackoff(d, max time.Duration) time.Duration {
	d *= 2
	if d > max {
		return max
	}
	return d
}
