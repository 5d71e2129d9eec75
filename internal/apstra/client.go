// Package apstra is a minimal client for the Apstra fabric controller API:
// token auth, blueprint and switch-system discovery, property sets, and the
// asynchronous telemetry command-execution protocol.
package apstra

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Options tunes a Client. The zero value is usable.
type Options struct {
	// SkipVerify disables TLS certificate verification. Controllers almost
	// always run with self-signed certificates.
	SkipVerify bool
	// Timeout bounds each individual HTTP request.
	Timeout time.Duration
	// PollInterval is the delay between command poll attempts.
	PollInterval time.Duration
	// PollAttempts bounds the number of command poll attempts.
	PollAttempts int
}

// Client talks to one controller. It is safe for concurrent use once
// authenticated; commands for different systems run independently.
type Client struct {
	server       string
	token        string
	http         *http.Client
	pollInterval time.Duration
	pollAttempts int
}

// NewClient creates a Client for the given controller address (host or
// host:port, without scheme).
func NewClient(server string, opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.PollAttempts == 0 {
		opts.PollAttempts = 30
	}
	transport := &http.Transport{}
	if opts.SkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		server:       server,
		http:         &http.Client{Timeout: opts.Timeout, Transport: transport},
		pollInterval: opts.PollInterval,
		pollAttempts: opts.PollAttempts,
	}
}

// url builds a request URL. Bare host addresses get the https scheme; an
// explicit scheme (useful against test servers) is respected.
func (c *Client) url(path string) string {
	if strings.Contains(c.server, "://") {
		return c.server + path
	}
	return "https://" + c.server + path
}

// doJSON issues a request with an optional JSON body and decodes a 2xx JSON
// response into out. Non-2xx statuses and transport failures come back as
// *TransportError.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	url := c.url(path)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("AuthToken", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, URL: url, Status: resp.StatusCode, Err: apiError(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", op, url, err)
	}
	return nil
}

// apiError decodes the controller's error body, if it sent one.
func apiError(body io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return nil
	}
	var payload struct {
		Errors string `json:"errors"`
	}
	if json.Unmarshal(raw, &payload) != nil || payload.Errors == "" {
		return nil
	}
	return &APIError{Message: payload.Errors}
}

// Login authenticates and stores the session token for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, "login", http.MethodPost, "/api/aaa/login", body, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("login: controller returned no token")
	}
	c.token = resp.Token
	return nil
}

// Authenticated reports whether Login has succeeded.
func (c *Client) Authenticated() bool { return c.token != "" }

// Blueprint is one controller blueprint summary.
type Blueprint struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Blueprints lists all blueprints on the controller.
func (c *Client) Blueprints(ctx context.Context) ([]Blueprint, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	var resp struct {
		Items []Blueprint `json:"items"`
	}
	if err := c.doJSON(ctx, "blueprints", http.MethodGet, "/api/blueprints", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// System describes a switch node inside a blueprint.
type System struct {
	ID       string `json:"id"`
	Name     string `json:"label"`
	Hostname string `json:"hostname"`
	SystemID string `json:"system_id"`
	Role     string `json:"role"`
}

// SwitchSystems queries a blueprint's graph for its switch nodes.
func (c *Client) SwitchSystems(ctx context.Context, blueprintID string) ([]System, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	body := map[string]string{
		"query": "node(type='system', name='switch_nodes', system_type='switch')",
	}
	var resp struct {
		Items []struct {
			SwitchNodes System `json:"switch_nodes"`
		} `json:"items"`
	}
	path := "/api/blueprints/" + blueprintID + "/qe"
	if err := c.doJSON(ctx, "systems", http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	systems := make([]System, 0, len(resp.Items))
	for _, item := range resp.Items {
		systems = append(systems, item.SwitchNodes)
	}
	return systems, nil
}

// PropertySet is a named key-value bag on the controller.
type PropertySet struct {
	ID     string         `json:"id"`
	Label  string         `json:"label"`
	Values map[string]any `json:"values"`
}

// PropertySets lists all property sets.
func (c *Client) PropertySets(ctx context.Context) ([]PropertySet, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	var resp struct {
		Items []PropertySet `json:"items"`
	}
	if err := c.doJSON(ctx, "property-sets", http.MethodGet, "/api/property-sets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// FindPropertySet returns the property set with the given label, or nil.
func FindPropertySet(sets []PropertySet, label string) *PropertySet {
	for i := range sets {
		if sets[i].Label == label {
			return &sets[i]
		}
	}
	return nil
}

// CreatePropertySet creates a property set and returns its id.
func (c *Client) CreatePropertySet(ctx context.Context, label string, values map[string]any) (string, error) {
	if !c.Authenticated() {
		return "", ErrNotAuthenticated
	}
	body := map[string]any{"label": label, "values": values}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, "property-set create", http.MethodPost, "/api/property-sets", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// UpdatePropertySet replaces the label and values of an existing property set.
func (c *Client) UpdatePropertySet(ctx context.Context, id, label string, values map[string]any) error {
	if !c.Authenticated() {
		return ErrNotAuthenticated
	}
	body := map[string]any{"label": label, "values": values}
	return c.doJSON(ctx, "property-set update", http.MethodPut, "/api/property-sets/"+id, body, nil)
}

// UpsertPropertySet updates the property set with the given label if it
// exists, otherwise creates it.
func (c *Client) UpsertPropertySet(ctx context.Context, label string, values map[string]any) error {
	sets, err := c.PropertySets(ctx)
	if err != nil {
		return err
	}
	if existing := FindPropertySet(sets, label); existing != nil {
		return c.UpdatePropertySet(ctx, existing.ID, label, values)
	}
	_, err = c.CreatePropertySet(ctx, label, values)
	return err
}
