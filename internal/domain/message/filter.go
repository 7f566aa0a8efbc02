package message

import "time"

const (
	DefaultListPageSize   = 20
	DefaultSearchPageSize = 10
	MaxPageSize           = 100
)

// ListFilter narrows List results. Nil fields do not filter.
type ListFilter struct {
	Page        int
	PageSize    int
	Platform    *string
	MessageType *Type
	DateFrom    *time.Time
	DateTo      *time.Time
	HasAnalysis *bool
}

func NewListFilter() *ListFilter {
	return &ListFilter{Page: 1, PageSize: DefaultListPageSize}
}

func (f *ListFilter) WithPage(page, pageSize int) *ListFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

func (f *ListFilter) WithPlatform(platform string) *ListFilter {
	f.Platform = &platform
	return f
}

func (f *ListFilter) WithMessageType(t Type) *ListFilter {
	f.MessageType = &t
	return f
}

// WithDateRange sets an inclusive timestamp range; either bound may be nil.
func (f *ListFilter) WithDateRange(from, to *time.Time) *ListFilter {
	f.DateFrom = from
	f.DateTo = to
	return f
}

func (f *ListFilter) WithHasAnalysis(has bool) *ListFilter {
	f.HasAnalysis = &has
	return f
}

// Offset is the number of rows skipped before the page.
func (f *ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// SearchQuery is a normalized full-text search request.
type SearchQuery struct {
	Term     string
	Page     int
	PageSize int
}

func (q SearchQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
