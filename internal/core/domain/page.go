package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a normalised, 1-based page selector.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest clamps size to [1, MaxPageSize] and page to the range whose
// skip still fits in an int64.
func NewPageRequest(page, size int) PageRequest {
	switch {
	case size < 1:
		size = 1
	case size > MaxPageSize:
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if limit := math.MaxInt64 / int64(size); int64(page) > limit {
		page = int(limit)
	}
	return PageRequest{Page: page, Size: size}
}

// Skip is the number of items preceding the requested page.
func (r PageRequest) Skip() int64 {
	return int64(r.Page-1) * int64(r.Size)
}

// SortSpec orders a listing by a single field.
type SortSpec struct {
	Field string
	Desc  bool
}

// Page is the universal list envelope.
type Page[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewPage computes the pagination arithmetic for items fetched with req out of
// total matching records.
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	size := req.Size
	if size < 1 {
		size = 1
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	return Page[T]{
		Items:       items,
		CurrentPage: req.Page,
		PageSize:    size,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     req.Page < totalPages,
		HasPrev:     req.Page > 1,
	}
}

// MapPage converts the items of p while keeping its arithmetic.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, fn(it))
	}
	return Page[U]{
		Items:       out,
		CurrentPage: p.CurrentPage,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages,
		TotalCount:  p.TotalCount,
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
	}
}
