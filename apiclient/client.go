// Package apiclient is the single outbound request pipeline against the CRM
// API. Every request picks up the current session token as a bearer
// credential, and every 401 response clears the persisted session and fires
// the unauthenticated listeners before the error reaches the caller.
//
// The package depends downward only: it reads and clears the session store
// but never touches session state above it. Higher layers subscribe via
// OnUnauthenticated instead.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-crm-console/sessionstore"
)

// UnauthenticatedFunc is invoked after any response comes back 401 and the
// persisted session has been cleared.
type UnauthenticatedFunc func()

// Client issues JSON requests against a configured base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      sessionstore.Store

	lock           sync.Mutex
	listeners      map[int]UnauthenticatedFunc
	nextListenerID int
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithTransport sets the underlying round tripper (primarily for testing).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport.(*sessionTransport).base = rt
	}
}

// New builds a Client whose transport attaches the stored session token to
// each request when one is present.
func New(baseURL string, store sessionstore.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[apiclient.New] base URL is required")
	}
	if store == nil {
		return nil, errors.New("[apiclient.New] session store is required")
	}

	client := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		store:     store,
		listeners: make(map[int]UnauthenticatedFunc),
	}
	client.httpClient = &http.Client{
		Transport: &sessionTransport{base: http.DefaultTransport, client: client},
	}

	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// OnUnauthenticated registers fn to run whenever a 401 is intercepted.
// The returned function removes the registration.
func (c *Client) OnUnauthenticated(fn UnauthenticatedFunc) func() {
	c.lock.Lock()
	defer c.lock.Unlock()

	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn

	return func() {
		c.lock.Lock()
		defer c.lock.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) notifyUnauthenticated() {
	c.lock.Lock()
	fns := make([]UnauthenticatedFunc, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.lock.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Get issues a GET request and decodes a 2xx body into out when out is non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failure: propagated unchanged, no retry.
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "[Client.do] decode response body")
	}
	return nil
}

// sessionTransport augments each request with the stored bearer token and
// intercepts 401 responses. Token lookup happens per request, so a token
// saved after the client was built is picked up immediately.
type sessionTransport struct {
	base   http.RoundTripper
	client *Client
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt := t.base
	if token := t.client.store.LoadToken(); token != "" {
		rt = &oauth2.Transport{
			Base:   t.base,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		}
	}

	resp, err := rt.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Stale credentials must never be reused on a later request, so the
		// store is cleared before the caller even sees the response.
		t.client.store.Clear()
		t.client.notifyUnauthenticated()
	}
	return resp, nil
}
