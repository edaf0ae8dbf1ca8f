package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/modsurfer/errors"
)

const defaultTimeout = 30 * time.Second

// Module is the catalog's record for a stored module.
type Module struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	Hash      string `json:"hash"`
	SizeBytes int    `json:"size_bytes"`
	Yanked    bool   `json:"yanked"`
}

// AuditEvent is one entry in a module's audit trail.
type AuditEvent struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Actor     string `json:"actor"`
}

// Client is a thin wrapper over the remote catalog's HTTP API. It never
// consumes a validate.Report itself; callers typically validate a module
// before calling Create.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client bound to baseURL with a bounded-timeout HTTP client.
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: defaultTimeout}}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	u := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return errors.CatalogFailure(u, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.CatalogFailure(u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.NotFound(errors.PhaseCatalog, "module", path)
	}
	if resp.StatusCode >= 400 {
		return errors.CatalogFailure(u, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.CatalogFailure(u, err)
	}
	return nil
}

// Create uploads a module's bytes under (name, version) and returns the
// catalog's stored record.
func (c *Client) Create(ctx context.Context, name, version string, data []byte) (*Module, error) {
	body, err := json.Marshal(struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Data    []byte `json:"data"`
	}{Name: name, Version: version, Data: data})
	if err != nil {
		return nil, errors.CatalogFailure(c.baseURL+"/modules", err)
	}

	var m Module
	if err := c.do(ctx, http.MethodPost, "/modules", body, &m); err != nil {
		return nil, err
	}
	Logger().Debug("created catalog module", zap.String("name", name), zap.String("version", version), zap.String("id", m.ID))
	return &m, nil
}

// List returns every module in the catalog.
func (c *Client) List(ctx context.Context) ([]Module, error) {
	var ms []Module
	if err := c.do(ctx, http.MethodGet, "/modules", nil, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// Search returns modules whose name or string contents match query.
func (c *Client) Search(ctx context.Context, query string) ([]Module, error) {
	var ms []Module
	path := "/modules/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// Get fetches a single module's record by ID.
func (c *Client) Get(ctx context.Context, id string) (*Module, error) {
	var m Module
	if err := c.do(ctx, http.MethodGet, "/modules/"+url.PathEscape(id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete permanently removes a module from the catalog.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/modules/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	Logger().Debug("deleted catalog module", zap.String("id", id))
	return nil
}

// Yank marks a module as withdrawn without deleting it.
func (c *Client) Yank(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPost, "/modules/"+url.PathEscape(id)+"/yank", nil, nil); err != nil {
		return err
	}
	Logger().Debug("yanked catalog module", zap.String("id", id))
	return nil
}

// Audit returns the change history recorded for a module.
func (c *Client) Audit(ctx context.Context, id string) ([]AuditEvent, error) {
	var events []AuditEvent
	if err := c.do(ctx, http.MethodGet, "/modules/"+url.PathEscape(id)+"/audit", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}
