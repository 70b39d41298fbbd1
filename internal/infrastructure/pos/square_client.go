package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// Errors for the Square client
var (
	ErrSquareUnavailable    = errors.New("square: platform unavailable")
	ErrSquareRequestFailed  = errors.New("square: request failed")
	ErrSquareInvalidPayload = errors.New("square: invalid response payload")
)

// SyncError is the structured failure of one remote catalog call: the
// remote API returned application-level errors, or retries were
// exhausted. Callers must treat a failed batch as fully unapplied.
type SyncError struct {
	Operation  string
	StatusCode int
	Attempts   int
	Errors     []APIError
	Cause      error
}

func (e *SyncError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, apiErr := range e.Errors {
		parts = append(parts, apiErr.String())
	}
	detail := strings.Join(parts, "; ")
	if detail == "" && e.Cause != nil {
		detail = e.Cause.Error()
	}
	return fmt.Sprintf("square: %s failed after %d attempt(s) (HTTP %d): %s", e.Operation, e.Attempts, e.StatusCode, detail)
}

// Unwrap exposes the transport-level cause when present.
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// IdempotencyStore records issued idempotency keys so a crashed process
// can recognize replays. Implementations live in infrastructure/cache.
type IdempotencyStore interface {
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// idempotencyKeyTTL bounds how long issued keys are remembered.
const idempotencyKeyTTL = 24 * time.Hour

// SquareClient is a thin, retrying, rate-limit-aware wrapper around the
// Square HTTP API. Batch operations are transparently chunked to the
// platform's advertised per-request limits.
type SquareClient struct {
	config      *SquareConfig
	httpClient  *http.Client
	logger      *zap.Logger
	idempotency IdempotencyStore

	limitsMu sync.Mutex
	limits   *CatalogLimits

	// sleep is swapped out by tests to avoid real backoff waits.
	sleep func(time.Duration)
}

// NewSquareClient creates a Square client with the given configuration.
// The idempotency store may be nil, in which case keys are generated but
// not recorded.
func NewSquareClient(config *SquareConfig, idempotency IdempotencyStore, logger *zap.Logger) (*SquareClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SquareClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger:      logger,
		idempotency: idempotency,
		sleep:       time.Sleep,
	}, nil
}

// newIdempotencyKey generates a fresh idempotency token per logical
// request and records it through the store when one is configured.
func (c *SquareClient) newIdempotencyKey(ctx context.Context) string {
	key := uuid.NewString()
	if c.idempotency != nil {
		if _, err := c.idempotency.MarkProcessed(ctx, key, idempotencyKeyTTL); err != nil {
			c.logger.Warn("failed to record idempotency key", zap.String("key", key), zap.Error(err))
		}
	}
	return key
}

// retryableStatusCodes is the fixed set of transient HTTP statuses the
// client retries on.
var retryableStatusCodes = map[int]struct{}{
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// backoffWait computes the jittered exponential wait before the next
// attempt: 2^(attempt+1) * base + random(base).
func (c *SquareClient) backoffWait(attempt int) time.Duration {
	base := c.config.RetryBaseWait
	wait := time.Duration(1<<uint(attempt+1)) * base
	jitter := time.Duration(rand.Int63n(int64(base)))
	return wait + jitter
}

// doWithRetry performs one logical HTTP call with the bounded
// exponential-backoff retry policy. Only the fixed transient status set
// is retried; any other failure, or retry exhaustion, yields a
// structured SyncError.
func (c *SquareClient) doWithRetry(ctx context.Context, operation, method, path string, reqBody, respBody any) error {
	var payload []byte
	if reqBody != nil {
		var err error
		payload, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("square: failed to marshal request: %w", err)
		}
	}

	var lastStatus int
	var lastErr error
	attempts := 0

	for attempt := 0; attempt < c.config.RetryMaxAttempts; attempt++ {
		attempts = attempt + 1
		if attempt > 0 {
			wait := c.backoffWait(attempt - 1)
			c.logger.Debug("retrying square call",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
			)
			select {
			case <-ctx.Done():
				return &SyncError{Operation: operation, StatusCode: lastStatus, Attempts: attempts, Cause: ctx.Err()}
			default:
			}
			c.sleep(wait)
		}

		status, body, err := c.doRequest(ctx, method, path, payload)
		if err != nil {
			lastErr = err
			lastStatus = 0
			continue
		}
		lastStatus = status

		if _, transient := retryableStatusCodes[status]; transient {
			lastErr = fmt.Errorf("%w: HTTP %d", ErrSquareRequestFailed, status)
			continue
		}

		if status >= 400 {
			apiErrors := parseAPIErrors(body)
			c.logger.Error("square call rejected",
				zap.String("operation", operation),
				zap.Int("status", status),
				zap.ByteString("request", payload),
				zap.ByteString("response", body),
			)
			return &SyncError{Operation: operation, StatusCode: status, Attempts: attempts, Errors: apiErrors}
		}

		if respBody != nil {
			if err := json.Unmarshal(body, respBody); err != nil {
				return fmt.Errorf("%w: %v", ErrSquareInvalidPayload, err)
			}
		}
		return nil
	}

	c.logger.Error("square call exhausted retries",
		zap.String("operation", operation),
		zap.Int("attempts", attempts),
		zap.Int("last_status", lastStatus),
		zap.ByteString("request", payload),
	)
	return &SyncError{Operation: operation, StatusCode: lastStatus, Attempts: attempts, Cause: lastErr}
}

// doRequest performs a single HTTP round trip.
func (c *SquareClient) doRequest(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	url := c.config.APIBaseURL + path

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("square: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Square-Version", c.config.APIVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrSquareUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("square: failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// parseAPIErrors extracts application-level errors from a failure body.
func parseAPIErrors(body []byte) []APIError {
	var envelope struct {
		Errors []APIError `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Errors
}

// catalogLimits returns the platform's advertised per-request limits,
// fetched at first use and cached. A fetch that fails only because the
// caller's context was already done leaves the cache empty so a later
// call retries; any other failure caches conservative defaults.
func (c *SquareClient) catalogLimits(ctx context.Context) CatalogLimits {
	c.limitsMu.Lock()
	defer c.limitsMu.Unlock()
	if c.limits != nil {
		return *c.limits
	}

	var info catalogInfoResponse
	if err := c.doWithRetry(ctx, "catalog.info", http.MethodGet, "/v2/catalog/info", nil, &info); err != nil {
		if ctx.Err() != nil {
			return defaultCatalogLimits
		}
		c.logger.Warn("failed to fetch catalog limits, using defaults", zap.Error(err))
		limits := defaultCatalogLimits
		c.limits = &limits
		return limits
	}

	limits := defaultCatalogLimits
	if info.Limits != nil {
		fetched := *info.Limits
		if fetched.BatchUpsertMaxTotalObjects > 0 {
			limits.BatchUpsertMaxTotalObjects = fetched.BatchUpsertMaxTotalObjects
		}
		if fetched.BatchUpsertMaxObjectsPerBatch > 0 {
			limits.BatchUpsertMaxObjectsPerBatch = fetched.BatchUpsertMaxObjectsPerBatch
		}
		if fetched.BatchDeleteMaxObjectIDs > 0 {
			limits.BatchDeleteMaxObjectIDs = fetched.BatchDeleteMaxObjectIDs
		}
		if fetched.BatchRetrieveMaxObjectIDs > 0 {
			limits.BatchRetrieveMaxObjectIDs = fetched.BatchRetrieveMaxObjectIDs
		}
		if fetched.SearchMaxPageLimit > 0 {
			limits.SearchMaxPageLimit = fetched.SearchMaxPageLimit
		}
	}
	c.limits = &limits
	return limits
}
