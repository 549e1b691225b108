// Package httpc provides shared HTTP and websocket clients with sensible defaults.
// Use these instead of http.DefaultClient and websocket.DefaultDialer so that
// timeouts are always set.
package httpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Default timeouts for network operations.
const (
	DefaultTimeout          = 10 * time.Second
	DefaultConnectTimeout   = 5 * time.Second
	DefaultKeepAlive        = 30 * time.Second
	DefaultIdleConnTimeout  = 90 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
)

func netDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   DefaultConnectTimeout,
		KeepAlive: DefaultKeepAlive,
	}
}

// Client is a shared HTTP client with production-ready defaults.
var Client = NewClient(DefaultTimeout)

// NewClient creates a new HTTP client with the specified timeout.
// For most cases, use the shared Client variable instead.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:           netDialer().DialContext,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       DefaultIdleConnTimeout,
			TLSHandshakeTimeout:   DefaultHandshakeTimeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// WebSocketDialer returns a gorilla dialer using the shared connect timeouts.
func WebSocketDialer() *websocket.Dialer {
	return &websocket.Dialer{
		NetDialContext:   netDialer().DialContext,
		HandshakeTimeout: DefaultHandshakeTimeout,
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
	}
}

// GetJSON performs a GET with the shared client and decodes a JSON body into v.
// Non-2xx responses are returned as errors.
func GetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
