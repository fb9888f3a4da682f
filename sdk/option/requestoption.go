package option

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/turndownhq/turndown/sdk/internal/requestconfig"
)

// RequestOption is an option for the requests made by the turndown API Client.
type RequestOption = requestconfig.RequestOption

// MiddlewareNext is a function which is called by a middleware to pass an HTTP
// request to the next stage in the middleware chain.
type MiddlewareNext = func(*http.Request) (*http.Response, error)

// Middleware is a function which intercepts HTTP requests, processing or
// modifying them, and then passing the request to the next middleware or
// handler in the chain by calling next(req).
type Middleware = func(*http.Request, MiddlewareNext) (*http.Response, error)

// WithBaseURL returns a RequestOption that sets the BaseURL for the client.
func WithBaseURL(base string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("failed to parse BaseURL: %w", err)
		}
		r.BaseURL = u
		return nil
	})
}

// WithEnvironmentDev points the client at a locally running server.
func WithEnvironmentDev() RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		u, err := url.Parse("http://localhost:8080")
		if err != nil {
			return err
		}
		r.DefaultBaseURL = u
		return nil
	})
}

// WithHTTPClient changes the underlying [http.Client] used to make this
// request, which by default is [http.DefaultClient].
func WithHTTPClient(client *http.Client) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if client == nil {
			return fmt.Errorf("request option: custom http client cannot be nil")
		}
		r.HTTPClient = client
		return nil
	})
}

// WithHTTPDoer routes requests through a custom [requestconfig.HTTPDoer],
// mostly useful for testing.
func WithHTTPDoer(doer requestconfig.HTTPDoer) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.CustomHTTPDoer = doer
		return nil
	})
}

// WithHeader returns a RequestOption that sets the header value to the
// associated key.
func WithHeader(key, value string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Request.Header.Set(key, value)
		return nil
	})
}

// WithRequestTimeout returns a RequestOption that sets the timeout for each
// request attempt.
func WithRequestTimeout(dur time.Duration) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.RequestTimeout = dur
		return nil
	})
}

// WithResponseInto copies the [*http.Response] into the given address.
func WithResponseInto(dst **http.Response) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.ResponseInto = dst
		return nil
	})
}

// WithMiddleware returns a RequestOption that applies the given middleware to
// the requests made. Each middleware will execute in the order they were
// given.
func WithMiddleware(middlewares ...Middleware) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Middlewares = append(r.Middlewares, middlewares...)
		return nil
	})
}
