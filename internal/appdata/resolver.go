// Package appdata resolves app data hashes to the appCode recorded in their
// off-chain metadata document.
package appdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"ethflowScope/internal/metrics"
)

// Unknown is the label reported when no appCode can be recovered.
const Unknown = "unknown"

const (
	DefaultBaseURL = "https://api.cow.fi"
	appDataPath    = "/{network}/api/v1/app_data/{hash}"
)

var (
	// ErrLookup covers transport failures, unexpected statuses and malformed bodies.
	ErrLookup = errors.New("app data lookup failed")
	// ErrNotFound is returned when the service has no document for the hash.
	ErrNotFound = errors.New("app data not found")
	// ErrNoAppCode is returned when the document carries no appCode.
	ErrNoAppCode = errors.New("app data has no appCode")
)

// Config configures the lookup client.
type Config struct {
	BaseURL   string
	Network   string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
}

// Resolver looks up appCode labels one hash at a time.
type Resolver struct {
	client  *resty.Client
	network string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type appDataResponse struct {
	FullAppData *string `json:"fullAppData"`
}

type appDataDocument struct {
	AppCode *string `json:"appCode"`
}

func NewResolver(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(10 * cfg.RetryWait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil || resp == nil {
				return true
			}
			return resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError
		})

	return &Resolver{
		client:  client,
		network: cfg.Network,
		logger:  logger,
		metrics: m,
	}
}

// AppCode fetches the metadata document for appData and returns its appCode.
func (r *Resolver) AppCode(ctx context.Context, appData string) (string, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"network": r.network,
			"hash":    appData,
		}).
		Get(appDataPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrLookup, appData, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrNotFound, appData)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: %s: status %d", ErrLookup, appData, resp.StatusCode())
	}

	var body appDataResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("%w: %s: parse response: %w", ErrLookup, appData, err)
	}
	if body.FullAppData == nil {
		return "", fmt.Errorf("%w: %s: missing fullAppData", ErrNoAppCode, appData)
	}

	var doc appDataDocument
	if err := json.Unmarshal([]byte(*body.FullAppData), &doc); err != nil {
		return "", fmt.Errorf("%w: %s: parse fullAppData: %w", ErrLookup, appData, err)
	}
	if doc.AppCode == nil {
		return "", fmt.Errorf("%w: %s", ErrNoAppCode, appData)
	}
	return *doc.AppCode, nil
}

// Label returns the appCode for appData, or Unknown when it cannot be recovered.
// Lookup errors are logged and counted, never returned.
func (r *Resolver) Label(ctx context.Context, appData string) string {
	code, err := r.AppCode(ctx, appData)
	switch {
	case err == nil:
		r.metrics.ObserveLookup(metrics.LookupFound)
		return code
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoAppCode):
		r.metrics.ObserveLookup(metrics.LookupMissing)
		r.logger.Debug("app code unavailable", zap.String("app_data", appData), zap.Error(err))
	default:
		r.metrics.ObserveLookup(metrics.LookupError)
		r.logger.Warn("app data lookup failed", zap.String("app_data", appData), zap.Error(err))
	}
	return Unknown
}
