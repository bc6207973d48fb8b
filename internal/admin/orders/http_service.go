package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPClient matches the subset of http.Client used by HTTPService.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPService implements Service backed by the REST endpoints of the backend
// order service. Backend error messages are surfaced verbatim so the operator
// sees what the backend actually rejected.
type HTTPService struct {
	base   *url.URL
	token  string
	client HTTPClient
}

// NewHTTPService constructs a Service that talks to the backend order API.
// The token is the console's own service credential, not an operator token.
func NewHTTPService(baseURL, token string, client HTTPClient) (*HTTPService, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("orders: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("orders: parse base URL: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPService{
		base:   parsed,
		token:  token,
		client: client,
	}, nil
}

// List fetches the full order collection.
func (s *HTTPService) List(ctx context.Context) ([]Order, error) {
	req, err := s.newRequest(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.do(req, "list orders")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.errorFromResponse(resp)
	}

	var payload []Order
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("orders: decode order list: %w", err)
	}
	return payload, nil
}

// Accept posts the acceptance mutation for a pending order.
func (s *HTTPService) Accept(ctx context.Context, orderID int64, notes string) (AcceptResult, error) {
	body := map[string]string{"admin_notes": notes}
	req, err := s.newJSONRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/accept", orderID), body)
	if err != nil {
		return AcceptResult{}, err
	}
	resp, err := s.do(req, "accept order")
	if err != nil {
		return AcceptResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return AcceptResult{}, s.errorFromResponse(resp)
	}

	var payload AcceptResult
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return AcceptResult{}, fmt.Errorf("orders: decode accept response: %w", err)
	}
	return payload, nil
}

// Reject posts the rejection mutation for a pending order.
func (s *HTTPService) Reject(ctx context.Context, orderID int64, reason, notes string) error {
	body := map[string]string{
		"rejection_reason": reason,
		"admin_notes":      notes,
	}
	req, err := s.newJSONRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/reject", orderID), body)
	if err != nil {
		return err
	}
	resp, err := s.do(req, "reject order")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return s.errorFromResponse(resp)
	}
	return nil
}

// UpdateStatus puts the target fulfillment status for an accepted order.
func (s *HTTPService) UpdateStatus(ctx context.Context, orderID int64, status FulfillmentStatus) error {
	body := map[string]string{"status": string(status)}
	req, err := s.newJSONRequest(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/status", orderID), body)
	if err != nil {
		return err
	}
	resp, err := s.do(req, "update order status")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return s.errorFromResponse(resp)
	}
	return nil
}

func (s *HTTPService) do(req *http.Request, action string) (*http.Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("orders: failed to %s: %w", action, err)
	}
	return resp, nil
}

func (s *HTTPService) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.resolve(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("orders: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return req, nil
}

func (s *HTTPService) newJSONRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("orders: encode request body: %w", err)
	}
	req, err := s.newRequest(ctx, method, endpoint, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (s *HTTPService) resolve(endpoint string) string {
	trimmed := strings.TrimPrefix(endpoint, "/")
	ref := &url.URL{Path: trimmed}
	return s.base.ResolveReference(ref).String()
}

func (s *HTTPService) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode == http.StatusNotFound {
		return ErrOrderNotFound
	}

	type errorPayload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	var payload errorPayload
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			return fmt.Errorf("orders: backend error (%s): %s", strings.TrimSpace(payload.Code), payload.Message)
		}
	}
	if len(body) > 0 {
		return fmt.Errorf("orders: backend error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("orders: backend error (%d): %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
