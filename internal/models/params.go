package models

import "math"

const (
	// DefaultPageSize is used when the caller does not ask for a size.
	DefaultPageSize = 10
	// MaxPageSize caps the page size a caller may request.
	MaxPageSize = 50
	// MaxPageNumber keeps Offset from overflowing int.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// PaginationParams carries the page window of a listing request.
type PaginationParams struct {
	PageNumber int
	PageSize   int
}

// Normalize fills defaults and clamps the page window.
func (p *PaginationParams) Normalize() {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageNumber > MaxPageNumber {
		p.PageNumber = MaxPageNumber
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns the number of rows skipped before this page.
func (p PaginationParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// LikesParams selects a page of users on one side of the like relation.
// UserID is always the caller and is never read from the request.
type LikesParams struct {
	PaginationParams
	UserID    uint
	Predicate LikesPredicate
}
