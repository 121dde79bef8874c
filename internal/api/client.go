package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"

	"github.com/five82/kiosk/internal/query"
)

const (
	defaultBaseURL   = "127.0.0.1:8080"
	defaultUserAgent = "kiosk/0.1"
	defaultTimeout   = 10 * time.Second
	maxErrorBody     = 64 << 10
)

// Options tune a Client.
type Options struct {
	Timeout    time.Duration
	Logger     zerolog.Logger
	HTTPClient *http.Client
}

// Client talks to the admin REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       zerolog.Logger
	encoder   *schema.Encoder
}

// RequestOptions describes one call made through Client.Request.
type RequestOptions struct {
	Method string
	Header http.Header
	Query  url.Values
	Body   any
}

// NewClient builds a Client for the API at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		log:       opts.Logger,
		encoder:   newQueryEncoder(),
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Request performs one HTTP call and decodes a successful response body into
// dest. Non-2xx responses and connectivity problems are returned as
// *TransportError.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions, dest any) error {
	if c == nil {
		return errors.New("client is nil")
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	rel, err := url.Parse(path)
	if err != nil {
		return errors.Wrapf(err, "parse path %q", path)
	}
	if len(opts.Query) > 0 {
		rel.RawQuery = opts.Query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", rel.String()).Msg("api request failed")
		return errors.WithStack(&TransportError{Op: method + " " + path, Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", rel.String()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api request")

	if resp.StatusCode >= 400 {
		terr := &TransportError{Op: method + " " + path, Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var head envelopeHead
		if len(raw) > 0 && json.Unmarshal(raw, &head) == nil && strings.TrimSpace(head.ErrMessage) != "" {
			terr.Err = &EnvelopeError{Code: head.ErrCode, Message: head.ErrMessage}
		}
		return errors.WithStack(terr)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.WithStack(&TransportError{Op: method + " " + path, Status: resp.StatusCode, Err: errors.Wrap(err, "decode response")})
	}
	return nil
}

// EncodeQuery renders filters and pagination as query parameters. Zero
// valued filters are omitted.
func (c *Client) EncodeQuery(filters any, p query.Pagination) (url.Values, error) {
	values := url.Values{}
	if filters != nil {
		if err := c.encoder.Encode(filters, values); err != nil {
			return nil, errors.Wrap(err, "encode filters")
		}
	}
	if p != (query.Pagination{}) {
		if err := c.encoder.Encode(p, values); err != nil {
			return nil, errors.Wrap(err, "encode pagination")
		}
	}
	for key, vs := range values {
		kept := vs[:0]
		for _, v := range vs {
			if strings.TrimSpace(v) != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(values, key)
			continue
		}
		values[key] = kept
	}
	return values, nil
}

func newQueryEncoder() *schema.Encoder {
	enc := schema.NewEncoder()
	enc.SetAliasTag("url")
	enc.RegisterEncoder(time.Time{}, func(v reflect.Value) string {
		t, ok := v.Interface().(time.Time)
		if !ok || t.IsZero() {
			return ""
		}
		return t.Format(timestampLayout)
	})
	return enc
}

func call[T any](ctx context.Context, c *Client, path string, opts RequestOptions) (T, error) {
	var zero T
	var env Envelope[T]
	if err := c.Request(ctx, path, opts, &env); err != nil {
		return zero, err
	}
	if err := env.Err(); err != nil {
		return zero, errors.WithStack(err)
	}
	return env.Data, nil
}

func list[T any](ctx context.Context, c *Client, path string, filters any, p query.Pagination) (query.Page[T], error) {
	if c == nil {
		return query.Page[T]{}, errors.New("client is nil")
	}
	values, err := c.EncodeQuery(filters, p)
	if err != nil {
		return query.Page[T]{}, err
	}
	var env PagedEnvelope[T]
	if err := c.Request(ctx, path, RequestOptions{Query: values}, &env); err != nil {
		return query.Page[T]{}, err
	}
	if err := env.Err(); err != nil {
		return query.Page[T]{}, errors.WithStack(err)
	}
	return env.Page(), nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api_base_url %q", raw)
	}
	if u.Host == "" {
		return nil, errors.Errorf("parse api_base_url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
