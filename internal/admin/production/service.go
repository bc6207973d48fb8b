// Package production queries the external production-tracking subsystem for
// per-order completion. The tracker is the authority on whether an order's
// items have been built; the console only ever reads from it.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/l4nzaerol/balagbag/internal/admin/metrics"
)

// Status describes the tracker's view of a single order.
type Status struct {
	Completed bool    `json:"isCompleted"`
	Message   string  `json:"message"`
	Stage     string  `json:"stage,omitempty"`
	Progress  float64 `json:"progress,omitempty"`
	Details   string  `json:"details,omitempty"`
}

// Gate answers whether production has finished for an order. Every call is a
// fresh remote query: production state can change between the moment a list
// renders and the moment a transition is attempted, so results are never
// cached. When the tracker cannot be reached the gate fails closed and
// reports an incomplete status rather than an error.
type Gate interface {
	Check(ctx context.Context, orderID int64) Status
}

// Unavailable is the conservative status returned when the tracker could not
// be queried. Transitions gated on completion are denied on this result.
func Unavailable() Status {
	return Status{
		Completed: false,
		Message:   "Unable to check production status",
	}
}

const (
	// gateMaxRetries bounds the retry-then-fail-closed strategy: the gate
	// result blocks an operator action, so short retries beat long waits.
	gateMaxRetries  = 2
	gateMaxInterval = 2 * time.Second
)

// HTTPClient matches the subset of http.Client used by HTTPGate.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPGate implements Gate against the tracker's REST endpoint.
type HTTPGate struct {
	base   *url.URL
	token  string
	client HTTPClient
	logger *zap.Logger
}

// NewHTTPGate constructs a Gate that queries the production tracker API.
func NewHTTPGate(baseURL, token string, client HTTPClient, logger *zap.Logger) (*HTTPGate, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("production: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("production: parse base URL: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPGate{
		base:   parsed,
		token:  token,
		client: client,
		logger: logger,
	}, nil
}

// Check queries completion for the order with a bounded exponential retry.
// After the final failure it returns the conservative incomplete status.
func (g *HTTPGate) Check(ctx context.Context, orderID int64) Status {
	var status Status

	operation := func() error {
		fetched, err := g.fetch(ctx, orderID)
		if err != nil {
			return err
		}
		status = fetched
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = gateMaxInterval

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, gateMaxRetries), ctx))
	if err != nil {
		metrics.GateFailClosed.Inc()
		g.logger.Warn("production status check failed, gated transitions will be denied",
			zap.Int64("orderID", orderID),
			zap.Error(err),
		)
		return Unavailable()
	}
	return status
}

func (g *HTTPGate) fetch(ctx context.Context, orderID int64) (Status, error) {
	endpoint := g.resolve(fmt.Sprintf("orders/%d/production-status", orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Status{}, backoff.Permanent(fmt.Errorf("production: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("production: query tracker: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError:
		return Status{}, fmt.Errorf("production: tracker error (%d)", resp.StatusCode)
	default:
		// Client errors will not heal on retry.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<12))
		return Status{}, backoff.Permanent(fmt.Errorf("production: tracker rejected query (%d): %s",
			resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Status{}, backoff.Permanent(fmt.Errorf("production: decode status: %w", err))
	}
	return status, nil
}

func (g *HTTPGate) resolve(endpoint string) string {
	ref := &url.URL{Path: strings.TrimPrefix(endpoint, "/")}
	return g.base.ResolveReference(ref).String()
}

// StaticGate is a deterministic Gate for local development and tests.
// Orders without a configured status report the conservative default.
type StaticGate struct {
	mu       sync.RWMutex
	statuses map[int64]Status
}

// NewStaticGate returns an empty StaticGate.
func NewStaticGate() *StaticGate {
	return &StaticGate{statuses: make(map[int64]Status)}
}

// Set records the status reported for an order.
func (g *StaticGate) Set(orderID int64, status Status) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[orderID] = status
}

// SetCompleted is a shorthand for marking an order's production finished or not.
func (g *StaticGate) SetCompleted(orderID int64, completed bool) {
	message := "Production in progress"
	if completed {
		message = "All production records completed"
	}
	g.Set(orderID, Status{Completed: completed, Message: message})
}

// Check returns the configured status, or the conservative default.
func (g *StaticGate) Check(ctx context.Context, orderID int64) Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if status, ok := g.statuses[orderID]; ok {
		return status
	}
	return Unavailable()
}
