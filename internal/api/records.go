package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/codewithmeedev/personal-finance-manager/internal/core"
)

// Sort directions understood by the store's list endpoint.
const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

type (
	SortOrder int

	// ListParams is the filter/sort/pagination state forwarded verbatim to
	// the store's list endpoint. No filtering or sorting happens locally.
	ListParams struct {
		Skip      int
		Limit     int
		Category  string
		SortField string
		SortOrder SortOrder
	}

	// ListResult is the store's paged answer. Total counts every record
	// matching the filter before pagination, so callers can compute page
	// counts.
	ListResult struct {
		Records []core.Record `json:"records"`
		Total   int           `json:"total"`
	}
)

var (
	ErrBadSortField   = errors.New("sort field does not name a record attribute")
	ErrBadSortOrder   = errors.New("sort order must be 1 or -1")
	ErrPageOutOfRange = errors.New("page out of range")
)

// sortFields are the Record attributes the store accepts as sort keys.
var sortFields = map[string]bool{
	"id":          true,
	"user_id":     true,
	"amount":      true,
	"category":    true,
	"description": true,
	"date":        true,
	"type":        true,
}

func (p ListParams) Validate() error {
	if p.Skip < 0 {
		return fmt.Errorf("skip must not be negative, got %d", p.Skip)
	}
	if p.Limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", p.Limit)
	}
	if p.SortField != "" && !sortFields[p.SortField] {
		return fmt.Errorf("%w: %q", ErrBadSortField, p.SortField)
	}
	if p.SortOrder != 0 && p.SortOrder != Ascending && p.SortOrder != Descending {
		return ErrBadSortOrder
	}
	return nil
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(p.Skip))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.SortField != "" {
		q.Set("sortField", p.SortField)
	}
	if p.SortOrder != 0 {
		q.Set("sortOrder", strconv.Itoa(int(p.SortOrder)))
	}
	return q
}

// PageCount is the number of pages needed for total records at the given
// page size.
func PageCount(total, limit int) int {
	if limit < 1 || total < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

// ParamsForPage converts a 1-based page number into list parameters,
// rejecting pages outside 1..PageCount(total, limit) before anything is
// sent to the store.
func ParamsForPage(page, limit, total int) (ListParams, error) {
	count := PageCount(total, limit)
	if page < 1 || page > count {
		return ListParams{}, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, count)
	}
	return ListParams{Skip: (page - 1) * limit, Limit: limit}, nil
}

// List fetches one page of the caller's records.
func (c *Client) List(ctx context.Context, params ListParams) (ListResult, error) {
	if err := params.Validate(); err != nil {
		return ListResult{}, err
	}
	var result ListResult
	if err := c.doAuthed(ctx, http.MethodGet, "/records", params.values(), nil, &result); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// ListAll fetches every record, bypassing pagination. Used for report
// aggregation and export.
func (c *Client) ListAll(ctx context.Context) ([]core.Record, error) {
	q := url.Values{}
	q.Set("all", "true")
	var result ListResult
	if err := c.doAuthed(ctx, http.MethodGet, "/records", q, nil, &result); err != nil {
		return nil, err
	}
	return result.Records, nil
}

// Create stores a new record and returns it with its assigned identity.
func (c *Client) Create(ctx context.Context, draft core.RecordDraft) (core.Record, error) {
	if err := draft.Validate(); err != nil {
		return core.Record{}, err
	}
	var created core.Record
	if err := c.doAuthed(ctx, http.MethodPost, "/records/", nil, draft, &created); err != nil {
		return core.Record{}, err
	}
	return created, nil
}

// Update patches an existing record and returns the stored result.
func (c *Client) Update(ctx context.Context, recordID string, draft core.RecordDraft) (core.Record, error) {
	if err := draft.Validate(); err != nil {
		return core.Record{}, err
	}
	var updated core.Record
	if err := c.doAuthed(ctx, http.MethodPatch, "/records/"+url.PathEscape(recordID), nil, draft, &updated); err != nil {
		return core.Record{}, err
	}
	return updated, nil
}

// Delete removes a record and returns the store's confirmation message.
func (c *Client) Delete(ctx context.Context, recordID string) (string, error) {
	var reply struct {
		Message string `json:"message"`
	}
	if err := c.doAuthed(ctx, http.MethodDelete, "/records/"+url.PathEscape(recordID), nil, nil, &reply); err != nil {
		return "", err
	}
	return reply.Message, nil
}
