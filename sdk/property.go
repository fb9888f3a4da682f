package turndown

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/turndownhq/turndown/sdk/internal/requestconfig"
	"github.com/turndownhq/turndown/sdk/option"
)

type PropertyService struct {
	Options []option.RequestOption
}

func NewPropertyService(opts ...option.RequestOption) *PropertyService {
	r := &PropertyService{opts}
	return r
}

// New registers a property and returns it with its freshly generated
// access code.
func (r *PropertyService) New(ctx context.Context, body PropertyNewParams, opts ...option.RequestOption) (*Property, error) {
	opts = slices.Concat(r.Options, opts)
	path := "api/properties"

	res := &Property{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)

	return res, err
}

// Get fetches the property document for an access code.
func (r *PropertyService) Get(ctx context.Context, code string, opts ...option.RequestOption) (*Property, error) {
	opts = slices.Concat(r.Options, opts)
	if code == "" {
		return nil, ErrMissingCodeParameter
	}

	path := fmt.Sprintf("api/properties/%s", code)
	res := &Property{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)

	return res, err
}

// AddEmployee appends a housekeeper to the roster. Adding a name that is
// already present is a no-op on the server; the returned roster is
// authoritative either way.
func (r *PropertyService) AddEmployee(ctx context.Context, code string, body AddEmployeeParams, opts ...option.RequestOption) (*Property, error) {
	opts = slices.Concat(r.Options, opts)
	if code == "" {
		return nil, ErrMissingCodeParameter
	}

	path := fmt.Sprintf("api/properties/%s/employees", code)
	res := &Property{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)

	return res, err
}

type PropertyNewParams struct {
	Name string `json:"name"`
}

type AddEmployeeParams struct {
	Name string `json:"name"`
}

type Property struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Employees []string  `json:"employees"`
	CreatedAt time.Time `json:"createdAt"`
}
