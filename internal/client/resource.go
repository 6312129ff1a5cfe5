package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"suitadmin/internal/apierr"
)

// Remote endpoint roots.
const (
	PathAuth       = "/auth"
	PathItems      = "/items"
	PathCustomers  = "/customers"
	PathBookings   = "/bookings"
	PathRentals    = "/rentals"
	PathDiscounts  = "/discounts"
	PathPackages   = "/packages"
	PathAttendance = "/attendance"
	PathTimeOff    = "/time-off"
)

// ListParams are the query parameters shared by every list endpoint.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	Sort    string
	Filters map[string]string
}

// Values encodes the parameters, skipping zero values.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

// Resource is CRUD access to one endpoint family. T is the record returned
// by the API and In is the payload accepted by create and update.
type Resource[T any, In any] struct {
	c    *Client
	path string
}

// NewResource binds a resource to path on c.
func NewResource[T any, In any](c *Client, path string) *Resource[T, In] {
	return &Resource[T, In]{c: c, path: path}
}

// List fetches one page of records.
func (r *Resource[T, In]) List(ctx context.Context, params ListParams) (Page[T], error) {
	env, err := r.c.Do(ctx, http.MethodGet, r.path, params.Values(), nil)
	if err != nil {
		return Page[T]{}, err
	}
	return ExtractPaginatedData[T](env)
}

// Get fetches a single record.
func (r *Resource[T, In]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	p, err := r.itemPath(id)
	if err != nil {
		return zero, err
	}
	env, err := r.c.Do(ctx, http.MethodGet, p, nil, nil)
	if err != nil {
		return zero, err
	}
	return ExtractData[T](env)
}

// Create validates in and creates a record.
func (r *Resource[T, In]) Create(ctx context.Context, in In) (T, error) {
	var zero T
	if err := r.c.Validate(in); err != nil {
		return zero, err
	}
	env, err := r.c.Do(ctx, http.MethodPost, r.path, nil, in)
	if err != nil {
		return zero, err
	}
	return ExtractCreateData[T](env)
}

// Update validates in and replaces the record with the given id.
func (r *Resource[T, In]) Update(ctx context.Context, id string, in In) (T, error) {
	var zero T
	p, err := r.itemPath(id)
	if err != nil {
		return zero, err
	}
	if err := r.c.Validate(in); err != nil {
		return zero, err
	}
	env, err := r.c.Do(ctx, http.MethodPut, p, nil, in)
	if err != nil {
		return zero, err
	}
	return ExtractUpdateData[T](env)
}

// Delete removes the record with the given id.
func (r *Resource[T, In]) Delete(ctx context.Context, id string) error {
	p, err := r.itemPath(id)
	if err != nil {
		return err
	}
	env, err := r.c.Do(ctx, http.MethodDelete, p, nil, nil)
	if err != nil {
		return err
	}
	return ValidateDeleteResponse(env)
}

func (r *Resource[T, In]) itemPath(id string, suffix ...string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &apierr.Error{Code: apierr.CodeValidation, Message: "id is required", Field: "id"}
	}
	parts := append([]string{r.path, url.PathEscape(id)}, suffix...)
	return strings.Join(parts, "/"), nil
}
