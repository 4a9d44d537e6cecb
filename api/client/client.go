// Package client is the HTTP client of the node API, used by voters to submit
// ballots and by committee members to read the closed tally and post their
// decrypt shares.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/vocdoni/private-voting/api"
	"github.com/vocdoni/private-voting/log"
)

const (
	// HTTPGET is the method string used for calling Request()
	HTTPGET = http.MethodGet
	// HTTPPOST is the method string used for calling Request()
	HTTPPOST = http.MethodPost

	errCodeNot200 = "API error"

	// DefaultRetries is the number of attempts of a request when the node is
	// unreachable or throttling.
	DefaultRetries = 3
	// DefaultRetryWait is the pause between two attempts.
	DefaultRetryWait = 500 * time.Millisecond
	// DefaultTimeout is the default timeout for the HTTP client
	DefaultTimeout = 10 * time.Second
	// maxLoggedBody truncates request bodies in debug logs; ballots are large.
	maxLoggedBody = 256
)

// HTTPclient is the HTTP client of the private voting node API.
type HTTPclient struct {
	c         *http.Client
	host      *url.URL
	retries   int
	retryWait time.Duration
}

// New connects to the API host, checks it answers to ping and returns the handle
func New(host string) (*HTTPclient, error) {
	hostURL, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	if hostURL.Scheme == "" || hostURL.Host == "" {
		return nil, fmt.Errorf("invalid node address %q, expected http://host:port", host)
	}
	c := &HTTPclient{
		c: &http.Client{
			Transport: &http.Transport{IdleConnTimeout: DefaultTimeout},
			Timeout:   DefaultTimeout,
		},
		host:      hostURL,
		retries:   DefaultRetries,
		retryWait: DefaultRetryWait,
	}
	if err := c.Ping(); err != nil {
		return nil, err
	}
	log.Debugw("http client created", "host", hostURL.String())
	return c, nil
}

// Ping checks the node is up.
func (c *HTTPclient) Ping() error {
	return c.call(HTTPGET, nil, nil, api.PingEndpoint)
}

// SetRetries configures the number of attempts of each request. Values
// below one mean a single attempt.
func (c *HTTPclient) SetRetries(n int) {
	c.retries = max(n, 1)
}

// SetTimeout configures the timeout of each attempt.
func (c *HTTPclient) SetTimeout(d time.Duration) {
	c.c.Timeout = d
}

// endpointURL joins the host with the path segments and the query
// parameters, given as key, value pairs. An unpaired last parameter is
// ignored.
func (c *HTTPclient) endpointURL(params []string, urlPath ...string) string {
	u := *c.host
	u.Path = path.Join(u.Path, path.Join(urlPath...))
	if len(params) > 1 {
		values := url.Values{}
		for i := 0; i+1 < len(params); i += 2 {
			values.Set(params[i], params[i+1])
		}
		u.RawQuery = values.Encode()
	}
	return u.String()
}

// retryable reports whether a response status means the node is overloaded
// and the request may succeed later.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Request performs a raw request to the endpoint built from urlPath and
// returns the response body and status. jsonBody, if not nil, is sent as
// JSON. Transport failures and throttled responses are retried.
func (c *HTTPclient) Request(method string, jsonBody any, params []string, urlPath ...string) ([]byte, int, error) {
	var body []byte
	if jsonBody != nil {
		var err error
		if body, err = json.Marshal(jsonBody); err != nil {
			return nil, 0, fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}
	endpoint := c.endpointURL(params, urlPath...)
	logged := body
	if len(logged) > maxLoggedBody {
		logged = logged[:maxLoggedBody]
	}
	log.Debugw("http client request", "type", method, "url", endpoint, "body", string(logged))

	var lastErr error
	for attempt := 1; attempt <= max(c.retries, 1); attempt++ {
		if attempt > 1 {
			time.Sleep(c.retryWait)
		}
		data, status, err := c.do(method, endpoint, body)
		switch {
		case err != nil:
			lastErr = err
		case retryable(status):
			lastErr = fmt.Errorf("%s: %d (%s)", errCodeNot200, status, bytes.TrimSpace(data))
		default:
			return data, status, nil
		}
		log.Warnw("http request failed", "url", endpoint, "error", lastErr.Error(), "attempt", attempt, "retries", c.retries)
	}
	return nil, 0, fmt.Errorf("http request ultimately failed after retries: %w", lastErr)
}

// do performs a single attempt.
func (c *HTTPclient) do(method, endpoint string, body []byte) ([]byte, int, error) {
	req, err := http.NewRequest(method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warnw("failed to close response body", "error", err.Error())
		}
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, resp.StatusCode, nil
}

// call performs a request and decodes a 200 response into out. Any other
// status is returned as an *api.Error carrying the code sent by the node.
func (c *HTTPclient) call(method string, body, out any, urlPath string) error {
	data, status, err := c.Request(method, body, nil, urlPath)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return decodeError(status, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError rebuilds the api.Error of a failed request. Bodies that are not
// an API error, such as the ones of the middlewares, keep the raw text.
func decodeError(status int, data []byte) error {
	apiErr := struct {
		Err  string `json:"error"`
		Code int    `json:"code"`
	}{}
	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Code == 0 {
		return fmt.Errorf("%s: %d (%s)", errCodeNot200, status, bytes.TrimSpace(data))
	}
	return &api.Error{Err: errors.New(apiErr.Err), Code: apiErr.Code, HTTPstatus: status}
}
