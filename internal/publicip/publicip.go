// Package publicip discovers the host advertised in the API documentation.
package publicip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/config"
)

const (
	// DefaultMetadataURL is the EC2 instance metadata endpoint.
	DefaultMetadataURL = "http://169.254.169.254"
	// LoopbackHost is advertised when nothing better is known.
	LoopbackHost = "127.0.0.1"

	tokenTTLSeconds = "21600"
	requestTimeout  = 5 * time.Second
)

var ErrNoPublicIP = errors.New("instance has no public ipv4")

// Lookuper returns the machine's public IP address.
type Lookuper interface {
	Lookup(ctx context.Context) (string, error)
}

// Client queries the EC2 instance metadata service (IMDSv2).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a metadata client. An empty baseURL selects DefaultMetadataURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultMetadataURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Lookup fetches a session token and uses it to read the public IPv4 address.
func (c *Client) Lookup(ctx context.Context) (string, error) {
	token, err := c.do(ctx, http.MethodPut, "/latest/api/token", map[string]string{
		"X-aws-ec2-metadata-token-ttl-seconds": tokenTTLSeconds,
	})
	if err != nil {
		return "", fmt.Errorf("fetch metadata token: %w", err)
	}

	ip, err := c.do(ctx, http.MethodGet, "/latest/meta-data/public-ipv4", map[string]string{
		"X-aws-ec2-metadata-token": token,
	})
	if err != nil {
		return "", fmt.Errorf("fetch public ipv4: %w", err)
	}
	if ip == "" {
		return "", ErrNoPublicIP
	}
	return ip, nil
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

// ResolveHost picks the docs host: loopback in development, otherwise the
// metadata lookup, then PUBLIC_IP, then loopback.
func ResolveHost(ctx context.Context, cfg *config.Config, lookuper Lookuper) string {
	if cfg.Env.IsDevelopment() {
		return LoopbackHost
	}

	if cfg.PublicIP.Lookup && lookuper != nil {
		ip, err := lookuper.Lookup(ctx)
		if err == nil {
			return ip
		}
		log.Warn().Err(err).Msg("public ip lookup failed, falling back to PUBLIC_IP")
	}

	if cfg.PublicIP.Address != "" {
		return cfg.PublicIP.Address
	}
	return LoopbackHost
}
