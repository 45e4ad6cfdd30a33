// Package pagination handles page/page_size query parameters and paged
// list responses.
package pagination

import (
	"gorm.io/gorm"
)

// Page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is bound from the page and page_size query parameters.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize returns r with zero fields set to page 1 and DefaultPageSize, and
// PageSize capped at MaxPageSize.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	return r
}

// Offset is the number of rows before the requested page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageResponse is one page of items plus totals.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse builds a PageResponse. Data is never null in JSON.
func NewPageResponse[T any](data []T, req PageRequest, totalItems int64) *PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int((totalItems + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return &PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Find counts the rows matched by q and loads the requested page of them.
// Scopes such as Preload apply to the page query only.
func Find[T any](q *gorm.DB, req PageRequest, scopes ...func(*gorm.DB) *gorm.DB) (*PageResponse[T], error) {
	req = req.Normalize()

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var items []T
	if err := q.Scopes(scopes...).Offset(req.Offset()).Limit(req.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}
	return NewPageResponse(items, req, total), nil
}
