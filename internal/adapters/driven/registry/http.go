// Package registry answers whether packages exist on PyPI, npm and crates.io.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// Ensure HTTPRegistry implements the interface.
var _ driven.PackageRegistry = (*HTTPRegistry)(nil)

// Public registry endpoints. %s is the escaped package name.
const (
	PyPIURL   = "https://pypi.org/pypi/%s/json"
	NPMURL    = "https://registry.npmjs.org/%s"
	CratesURL = "https://crates.io/api/v1/crates/%s"
)

// DefaultUserAgent identifies racg; crates.io rejects requests without one.
const DefaultUserAgent = "racg (https://github.com/asdzza/RACG-Defense)"

// Default request settings.
const (
	DefaultTimeout           = 3 * time.Second
	DefaultRequestsPerSecond = 5.0
	defaultBurst             = 5
	maxDrainBytes            = 64 * 1024

	// maxRetryWait is the longest back-off Exists sits out before its single retry.
	maxRetryWait = 10 * time.Second
)

// Config holds settings for one registry client.
type Config struct {
	// URLFormat overrides the endpoint; tests point it at httptest servers.
	URLFormat string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond is the sustained rate. Zero means DefaultRequestsPerSecond.
	RequestsPerSecond float64

	// UserAgent overrides DefaultUserAgent.
	UserAgent string

	// Client overrides the HTTP client.
	Client *http.Client
}

// HTTPRegistry checks package existence with a GET against a JSON endpoint.
// 200 means published, 404 means not published, anything else is an error.
type HTTPRegistry struct {
	ecosystem string
	urlFormat string
	userAgent string
	client    *http.Client
	limiter   *RateLimiter
}

// NewPyPI creates a PyPI client.
func NewPyPI(cfg Config) *HTTPRegistry {
	return newHTTPRegistry(domain.EcosystemPyPI, PyPIURL, cfg)
}

// NewNPM creates an npm registry client. Scoped names are sent as @scope%2Fname.
func NewNPM(cfg Config) *HTTPRegistry {
	return newHTTPRegistry(domain.EcosystemNPM, NPMURL, cfg)
}

// NewCrates creates a crates.io client.
func NewCrates(cfg Config) *HTTPRegistry {
	return newHTTPRegistry(domain.EcosystemCrates, CratesURL, cfg)
}

func newHTTPRegistry(ecosystem, defaultURL string, cfg Config) *HTTPRegistry {
	if cfg.URLFormat == "" {
		cfg.URLFormat = defaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}

	return &HTTPRegistry{
		ecosystem: ecosystem,
		urlFormat: cfg.URLFormat,
		userAgent: cfg.UserAgent,
		client:    cfg.Client,
		limiter:   NewRateLimiter(cfg.RequestsPerSecond, defaultBurst),
	}
}

// Ecosystem returns the registry name.
func (r *HTTPRegistry) Ecosystem() string {
	return r.ecosystem
}

// Exists reports whether name is published. A 429 backs the limiter off and
// is retried once when the back-off is short.
func (r *HTTPRegistry) Exists(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, fmt.Errorf("%s lookup: %w: empty package name", r.ecosystem, domain.ErrInvalidInput)
	}

	exists, err := r.lookup(ctx, name)
	if errors.Is(err, domain.ErrRateLimited) && r.limiter.Pending() <= maxRetryWait {
		logger.Debug("registry: %s rate limited, retrying %q", r.ecosystem, name)
		exists, err = r.lookup(ctx, name)
	}
	return exists, err
}

func (r *HTTPRegistry) lookup(ctx context.Context, name string) (bool, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return false, err
	}

	endpoint := fmt.Sprintf(r.urlFormat, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("%s lookup %q: %w", r.ecosystem, name, err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("%w: %s lookup %q: %w", domain.ErrRegistryUnavailable, r.ecosystem, name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		r.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
		return false, fmt.Errorf("%w: %s: %w", domain.ErrRegistryUnavailable, r.ecosystem, domain.ErrRateLimited)
	default:
		return false, fmt.Errorf("%w: %s returned status %d for %q",
			domain.ErrRegistryUnavailable, r.ecosystem, resp.StatusCode, name)
	}
}

// retryAfter parses a Retry-After header in seconds; -1 when absent or invalid.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return -1
	}
	return time.Duration(secs) * time.Second
}

// NewRegistries builds clients for every ecosystem from registry settings.
func NewRegistries(settings domain.RegistrySettings) []driven.PackageRegistry {
	cfg := Config{
		Timeout:           time.Duration(settings.TimeoutSeconds) * time.Second,
		RequestsPerSecond: settings.RequestsPerSecond,
	}
	return []driven.PackageRegistry{NewPyPI(cfg), NewNPM(cfg), NewCrates(cfg)}
}
