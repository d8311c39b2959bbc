package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when the dataset host has no file by that name.
var ErrNotFound = errors.New("remote: not found")

// Client defines the contract for fetching dataset files from a remote host.
type Client interface {
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}

// Manifest lists the files a dataset host can serve.
type Manifest struct {
	Files []ManifestFile `json:"files"`
}

// ManifestFile is one entry of a Manifest.
type ManifestFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed dataset client. The timeout
// bounds connection setup and response headers; bodies of large tables are
// streamed under the caller's context.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse dataset url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("parse dataset url: unsupported scheme %q", parsed.Scheme)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Fetch opens the named dataset file. The caller must close the returned body.
func (c *HTTPClient) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, "*/*", "datasets", name)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	default:
		resp.Body.Close()
		c.logger.Warn().Int("status", resp.StatusCode).Str("file", name).Msg("remote: unexpected status")
		return nil, fmt.Errorf("remote: upstream returned %d for %s", resp.StatusCode, name)
	}
}

// Lister is implemented by clients whose host publishes a Manifest.
type Lister interface {
	Manifest(ctx context.Context) (Manifest, error)
}

// Has reports whether the manifest lists name.
func (m Manifest) Has(name string) bool {
	for _, f := range m.Files {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Manifest retrieves the list of files the host serves. Hosts without a
// manifest yield ErrNotFound.
func (c *HTTPClient) Manifest(ctx context.Context) (Manifest, error) {
	resp, err := c.get(ctx, "application/json", "datasets")
	if err != nil {
		return Manifest{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Manifest{}, fmt.Errorf("manifest: %w", ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return Manifest{}, fmt.Errorf("remote: upstream returned %d for manifest", resp.StatusCode)
	}
	var m Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

func (c *HTTPClient) get(ctx context.Context, accept string, elems ...string) (*http.Response, error) {
	endpoint := c.baseURL.JoinPath(elems...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
