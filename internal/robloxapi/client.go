// Package robloxapi is a client for the Roblox asset upload endpoint.
//
// Every request carries the session cookie. The endpoint also demands a
// CSRF token, which the client learns reactively: the first rejected request
// (HTTP 403 with an X-CSRF-Token response header) supplies the token, the
// request is repeated once with it, and the token is cached for every later
// call on the same client.
package robloxapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the production asset upload host.
	DefaultBaseURL = "https://data.roblox.com"

	uploadPath = "/data/upload/json"

	// decalAssetTypeID is the asset type used for image uploads.
	decalAssetTypeID = "13"

	csrfHeader   = "X-CSRF-Token"
	cookieHeader = "Cookie"
	cookieName   = ".ROBLOSECURITY"
)

// ImageUploadData is a single image upload request.
type ImageUploadData struct {
	ImageData   []byte
	Name        string
	Description string
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Success        bool   `json:"Success"`
	AssetID        uint64 `json:"AssetId"`
	BackingAssetID uint64 `json:"BackingAssetId"`
}

// uploadResponseBody mirrors UploadResponse with every field required.
type uploadResponseBody struct {
	Success        *bool   `json:"Success"`
	AssetID        *uint64 `json:"AssetId"`
	BackingAssetID *uint64 `json:"BackingAssetId"`
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, such as a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(strings.TrimRight(baseURL, "/"))
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithTimeout bounds each HTTP attempt. No timeout is set by default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// Client uploads assets on behalf of one authenticated session.
type Client struct {
	http      *resty.Client
	authToken string
	log       zerolog.Logger

	mu        sync.RWMutex
	csrfToken string
}

// NewClient returns a client authenticated with the given session token.
func NewClient(authToken string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetRetryCount(0),
		authToken: authToken,
		log:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CSRFToken returns the cached CSRF token, or "" if none has been learned.
func (c *Client) CSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

func (c *Client) setCSRFToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.csrfToken = token
}

// UploadImage uploads raw image bytes as a new decal asset.
func (c *Client) UploadImage(ctx context.Context, data ImageUploadData) (*UploadResponse, error) {
	resp, err := c.executeWithCSRFRetry(ctx, uploadPath, func() *resty.Request {
		return c.http.R().
			SetQueryParams(map[string]string{
				"assetTypeId": decalAssetTypeID,
				"name":        data.Name,
				"description": data.Description,
			}).
			SetBody(data.ImageData)
	})
	if err != nil {
		return nil, err
	}

	body := string(resp.Body())

	if !resp.IsSuccess() {
		return nil, &ResponseError{StatusCode: resp.StatusCode(), Body: body}
	}

	parsed, err := decodeUploadResponse(resp.Body())
	if err != nil {
		return nil, &BadResponseJSONError{Body: body, Err: err}
	}

	return parsed, nil
}

// executeWithCSRFRetry POSTs the request built by makeRequest. A 403 that
// carries a fresh CSRF token is retried exactly once with that token;
// whatever the retry returns is final.
func (c *Client) executeWithCSRFRetry(ctx context.Context, path string, makeRequest func() *resty.Request) (*resty.Response, error) {
	resp, err := c.attachHeaders(makeRequest()).SetContext(ctx).Post(path)
	if err != nil {
		return nil, &HTTPError{Err: err}
	}

	if resp.StatusCode() != http.StatusForbidden {
		return resp, nil
	}

	token := resp.Header().Get(csrfHeader)
	if token == "" {
		return resp, nil
	}

	c.log.Debug().Str("path", path).Msg("retrying request with X-CSRF-Token")
	c.setCSRFToken(token)

	resp, err = c.attachHeaders(makeRequest()).SetContext(ctx).Post(path)
	if err != nil {
		return nil, &HTTPError{Err: err}
	}

	return resp, nil
}

func (c *Client) attachHeaders(req *resty.Request) *resty.Request {
	req.SetHeader(cookieHeader, fmt.Sprintf("%s=%s", cookieName, c.authToken))

	if token := c.CSRFToken(); token != "" {
		req.SetHeader(csrfHeader, token)
	}

	return req
}

func decodeUploadResponse(body []byte) (*UploadResponse, error) {
	var raw uploadResponseBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	switch {
	case raw.Success == nil:
		return nil, errors.New("missing field `Success`")
	case raw.AssetID == nil:
		return nil, errors.New("missing field `AssetId`")
	case raw.BackingAssetID == nil:
		return nil, errors.New("missing field `BackingAssetId`")
	}

	return &UploadResponse{
		Success:        *raw.Success,
		AssetID:        *raw.AssetID,
		BackingAssetID: *raw.BackingAssetID,
	}, nil
}
