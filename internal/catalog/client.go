// Package catalog talks to the external catalog service: product name
// lookups for enrichment and per-product stock decrements.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"shipflow/pkg/faults"
)

type Client struct {
	log         *slog.Logger
	http        *http.Client
	baseURL     string
	callTimeout time.Duration
}

func NewClient(log *slog.Logger, baseURL string, callTimeout time.Duration) *Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: callTimeout,
	}
	return &Client{
		log:         log,
		http:        &http.Client{Transport: transport},
		baseURL:     baseURL,
		callTimeout: callTimeout,
	}
}

type productResponse struct {
	Name string `json:"name"`
}

// ResolveName looks up the display name for a product id. The lookup is a
// pure read with no side effects.
func (c *Client) ResolveName(ctx context.Context, productID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", faults.Unavailable(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", faults.NotFound("product %s not found", productID)
	case resp.StatusCode != http.StatusOK:
		return "", faults.Unavailable(fmt.Errorf("catalog returned %d for product %s", resp.StatusCode, productID))
	}

	var body productResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", faults.Unavailable(fmt.Errorf("decode product %s: %w", productID, err))
	}
	if body.Name == "" {
		return "", faults.Unavailable(fmt.Errorf("catalog returned empty name for product %s", productID))
	}
	return body.Name, nil
}

type decrementRequest struct {
	Quantity int `json:"quantity"`
}

// DecrementStock subtracts quantity from a product's stock. An issued
// decrement cannot be aborted or reversed; callers own the consequences
// of partial list application.
func (c *Client) DecrementStock(ctx context.Context, productID string, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	payload, err := json.Marshal(decrementRequest{Quantity: quantity})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/stock/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return faults.Unavailable(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		return faults.Rejected(fmt.Errorf("stock decrement rejected for product %s: %d", productID, resp.StatusCode))
	default:
		return faults.Unavailable(fmt.Errorf("stock update returned %d for product %s", resp.StatusCode, productID))
	}
}
