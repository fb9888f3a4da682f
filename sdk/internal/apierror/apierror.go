package apierror

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Error represents a non-2xx response from the API. The server's error
// body is kept raw alongside the extracted message.
type Error struct {
	StatusCode int
	Message    string
	Request    *http.Request
	Response   *http.Response
	RawBody    []byte
}

func New(req *http.Request, resp *http.Response, body []byte) *Error {
	message := gjson.GetBytes(body, "message").String()
	if message == "" {
		message = gjson.GetBytes(body, "error").String()
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &Error{
		StatusCode: resp.StatusCode,
		Message:    message,
		Request:    req,
		Response:   resp,
		RawBody:    body,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Request.Method, e.Request.URL.Path, e.StatusCode, e.Message)
}

func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *Error) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

func (e *Error) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest
}
