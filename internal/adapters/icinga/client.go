// Package icinga talks to the monitoring backend's REST API.
package icinga

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"icingview/internal/domain/row"
)

// Credentials authenticate against the API via HTTP Basic auth.
type Credentials struct {
	Username string
	Password string
}

// Response is the raw outcome of an upstream exchange. The caller branches
// on StatusCode; Body is the full response body either way.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client is a shared handle to the monitoring backend. It is configured
// once at startup and safe for any number of concurrent calls; there is no
// per-request retry or backoff, a failure surfaces immediately.
type Client struct {
	http *http.Client
}

// New creates a Client with the given exchange timeout. allowInvalidCerts
// disables certificate verification, matching Icinga's common self-signed
// deployments.
func New(timeout time.Duration, allowInvalidCerts bool) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if allowInvalidCerts {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit operator opt-in
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// ObjectsURL resolves the object-type query path against the configured
// base URL. A malformed base URL is a server-side fault.
func ObjectsURL(baseURL string, objType row.ObjectType) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	ref, err := url.Parse("objects/" + string(objType))
	if err != nil {
		return nil, fmt.Errorf("building objects path for %q: %w", objType, err)
	}
	return base.ResolveReference(ref), nil
}

// queryBody is the JSON document sent to the API. The filter expression is
// passed through verbatim; it is the upstream's filter language, not ours.
type queryBody struct {
	Filter string `json:"filter"`
}

// QueryObjects POSTs a filter query to target. The API cannot take a JSON
// body on a plain GET, so the request goes out as POST with an
// X-HTTP-Method-Override header telling the backend to treat it as GET.
//
// Any transport or body-read failure is returned as an error; an upstream
// non-200 status is not an error here, the caller decides what it means.
func (c *Client) QueryObjects(ctx context.Context, target *url.URL, creds Credentials, filter string) (*Response, error) {
	body, err := json.Marshal(queryBody{Filter: filter})
	if err != nil {
		return nil, fmt.Errorf("marshaling query body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request for %q: %w", target, err)
	}
	req.SetBasicAuth(creds.Username, creds.Password)
	req.Header.Set("X-HTTP-Method-Override", "GET")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request to %q: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body from %q: %w", target, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}
