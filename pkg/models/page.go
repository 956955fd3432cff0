package models

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPageNumber keeps (Number-1)*Size inside int64 for any accepted size.
	MaxPageNumber = math.MaxInt64 / MaxPageSize
)

type Page struct {
	Number int64
	Size   int64
}

// ParsePage reads page/limit query values. Missing or unusable values fall
// back to the first page of DefaultPageSize records.
func ParsePage(page string, limit string) Page {
	p := Page{Number: 1, Size: DefaultPageSize}

	if n, err := strconv.ParseInt(page, 10, 64); err == nil && n > 0 {
		p.Number = min(n, MaxPageNumber)
	}
	if n, err := strconv.ParseInt(limit, 10, 64); err == nil && n > 0 {
		p.Size = min(n, MaxPageSize)
	}

	return p
}

func (p Page) Skip() int64 {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt64/p.Size {
		return math.MaxInt64
	}
	return (p.Number - 1) * p.Size
}

func (p Page) TotalPages(total int64) int64 {
	return int64(math.Ceil(float64(total) / float64(p.Size)))
}

// Paged is the envelope of every paginated listing.
type Paged[T any] struct {
	Items       []T   `json:"-"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
	Total       int64 `json:"total"`
}

func NewPaged[T any](items []T, page Page, total int64) Paged[T] {
	if items == nil {
		items = []T{}
	}

	return Paged[T]{
		Items:       items,
		TotalPages:  page.TotalPages(total),
		CurrentPage: page.Number,
		Total:       total,
	}
}
