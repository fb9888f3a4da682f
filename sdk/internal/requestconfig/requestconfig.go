package requestconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/turndownhq/turndown/sdk/internal"
	"github.com/turndownhq/turndown/sdk/internal/apierror"
)

// This interface is primarily used to describe an [*http.Client], but also
// supports custom HTTP implementations.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestConfig represents all the state related to one request.
//
// Editing the variables inside RequestConfig directly is unstable api. Prefer
// composing the RequestOption instead if possible.
type RequestConfig struct {
	RequestTimeout time.Duration
	Context        context.Context
	Request        *http.Request
	BaseURL        *url.URL
	// DefaultBaseURL will be used if BaseURL is not explicitly overridden using
	// WithBaseURL.
	DefaultBaseURL *url.URL
	CustomHTTPDoer HTTPDoer
	HTTPClient     *http.Client
	Middlewares    []middleware
	// If ResponseBodyInto not nil, then we will attempt to deserialize into
	// ResponseBodyInto. If Destination is a []byte, then it will return the body as
	// is.
	ResponseBodyInto any
	// ResponseInto copies the \*http.Response of the corresponding request into the
	// given address
	ResponseInto **http.Response
	Body         io.Reader
}

// middleware is exactly the same type as the Middleware type found in the [option] package,
// but it is redeclared here for circular dependency issues.
type middleware = func(*http.Request, middlewareNext) (*http.Response, error)

// middlewareNext is exactly the same type as the MiddlewareNext type found in the [option] package,
// but it is redeclared here for circular dependency issues.
type middlewareNext = func(*http.Request) (*http.Response, error)

type RequestOption interface {
	Apply(*RequestConfig) error
}

type RequestOptionFunc func(*RequestConfig) error

func (s RequestOptionFunc) Apply(r *RequestConfig) error {
	return s(r)
}

func getDefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": fmt.Sprintf("Turndown/Client %s", internal.PackageVersion),
	}
}

func getNormalizedOS() string {
	switch runtime.GOOS {
	case "ios":
		return "iOS"
	case "android":
		return "Android"
	case "darwin":
		return "MacOS"
	case "window":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "linux":
		return "Linux"
	default:
		return fmt.Sprintf("Other:%s", runtime.GOOS)
	}
}

func getNormalizedArchitecture() string {
	switch runtime.GOARCH {
	case "386":
		return "x32"
	case "amd64":
		return "x64"
	case "arm":
		return "arm"
	case "arm64":
		return "arm64"
	default:
		return fmt.Sprintf("other:%s", runtime.GOARCH)
	}
}

func getPlatformProperties() map[string]string {
	return map[string]string{
		"X-Turndown-Lang":            "go",
		"X-Turndown-Package-Version": internal.PackageVersion,
		"X-Turndown-OS":              getNormalizedOS(),
		"X-Turndown-Arch":            getNormalizedArchitecture(),
		"X-Turndown-Runtime":         "go",
		"X-Turndown-Runtime-Version": runtime.Version(),
	}
}

// NewRequestConfig builds the request for one call. A params value of
// []byte is sent as-is; anything else non-nil is JSON encoded.
func NewRequestConfig(ctx context.Context, method, path string, params any, dst any, opts ...RequestOption) (*RequestConfig, error) {
	var body io.Reader
	contentType := ""

	switch v := params.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(v)
		contentType = "application/json"
	default:
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	for key, value := range getDefaultHeaders() {
		req.Header.Set(key, value)
	}
	for key, value := range getPlatformProperties() {
		req.Header.Set(key, value)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	cfg := &RequestConfig{
		RequestTimeout:   30 * time.Second,
		Context:          ctx,
		Request:          req,
		HTTPClient:       http.DefaultClient,
		ResponseBodyInto: dst,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.Apply(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.BaseURL == nil {
		cfg.BaseURL = cfg.DefaultBaseURL
	}
	if cfg.BaseURL == nil {
		return nil, fmt.Errorf("base URL is not configured")
	}

	return cfg, nil
}

// Execute performs the request once. There is no retry: a write either
// lands or surfaces its error to the caller.
func (cfg *RequestConfig) Execute() error {
	resolved, err := resolveURL(cfg.BaseURL, cfg.Request.URL.String())
	if err != nil {
		return err
	}
	cfg.Request.URL = resolved
	cfg.Request.Host = resolved.Host

	handler := func(r *http.Request) (*http.Response, error) {
		if cfg.CustomHTTPDoer != nil {
			return cfg.CustomHTTPDoer.Do(r)
		}
		return cfg.HTTPClient.Do(r)
	}
	for i := len(cfg.Middlewares) - 1; i >= 0; i-- {
		mw := cfg.Middlewares[i]
		next := handler
		handler = func(r *http.Request) (*http.Response, error) {
			return mw(r, next)
		}
	}

	ctx := cfg.Request.Context()
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	resp, err := handler(cfg.Request.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if cfg.ResponseInto != nil {
		*cfg.ResponseInto = resp
	}

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return apierror.New(cfg.Request, resp, raw)
	}

	if cfg.ResponseBodyInto == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if target, ok := cfg.ResponseBodyInto.(*[]byte); ok {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*target = raw
		return nil
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(cfg.ResponseBodyInto)
}

func ExecuteNewRequest(ctx context.Context, method, path string, params, res any, opts ...RequestOption) error {
	cfg, err := NewRequestConfig(ctx, method, path, params, res, opts...)
	if err != nil {
		return err
	}
	return cfg.Execute()
}

func resolveURL(base *url.URL, ref string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimPrefix(ref, "/"))
	if err != nil {
		return nil, err
	}
	if parsed.IsAbs() {
		return parsed, nil
	}

	resolved := *base
	resolved.Path = strings.TrimSuffix(base.Path, "/") + "/" + parsed.Path
	resolved.RawQuery = parsed.RawQuery
	return &resolved, nil
}
