// Package customers loads pages of customer-duration records for a route's
// location code, short-circuiting on non-service days and caching results per
// location code so expanding the same route twice does not refetch.
package customers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"routeboard/internal/models"
	"routeboard/internal/servicedays"
)

// Pagination describes one page of results.
type Pagination struct {
	Page            int   `json:"page"`
	PageSize        int   `json:"page_size"`
	TotalCount      int64 `json:"total_count"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// NewPagination computes page bookkeeping from a total row count.
func NewPagination(page, pageSize int, totalCount int64) *Pagination {
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	return &Pagination{
		Page:            page,
		PageSize:        pageSize,
		TotalCount:      totalCount,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// Fetcher retrieves one page of customer stops for a location code, ordered
// by customer name ascending, plus the exact total count for that code.
type Fetcher interface {
	FetchPage(ctx context.Context, code string, page, pageSize int) ([]models.CustomerStop, int64, error)
}

// Page is the result of one Load: the customer list for one location code,
// its pagination, and the error message when degraded. Each caller gets its
// own Page value, so concurrent requests never see each other's results.
type Page struct {
	Customers  []models.CustomerStop
	Pagination *Pagination
	ErrMsg     string
}

type cachedPage struct {
	customers   []models.CustomerStop
	pagination  *Pagination
	serviceDays []string
}

// Pager drives the customer list for an expanded route card. It is explicitly
// constructed (no package globals) so tests get isolated caches; a single
// instance is safe to share across requests because Load returns its result
// rather than parking it on the Pager.
//
// The cache is keyed by location code only: once any page for a code is
// cached, later calls for that code serve the cached snapshot even when a
// different page was requested. Known limitation, preserved deliberately.
type Pager struct {
	fetch Fetcher
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]cachedPage
}

// NewPager builds a Pager around a fetcher and a clock. A nil clock means
// time.Now.
func NewPager(f Fetcher, now func() time.Time) *Pager {
	if now == nil {
		now = time.Now
	}
	return &Pager{
		fetch: f,
		now:   now,
		cache: make(map[string]cachedPage),
	}
}

// Load resolves the customer list for a location code and returns it.
//
// If today is not one of serviceDays an empty Page is returned and no fetch
// happens. Otherwise the cache is consulted and, on miss, one page is fetched
// and written through. A fetch failure surfaces the error message and returns
// two flagged placeholder records so the UI is not empty; Pagination stays
// nil on that path and the failure is never cached.
func (p *Pager) Load(ctx context.Context, code string, serviceDays []string, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	today := servicedays.Today(p.now())
	if !containsFold(serviceDays, today) {
		return Page{}
	}

	if entry, ok := p.cache[code]; ok && entry.customers != nil && entry.pagination != nil {
		return Page{Customers: entry.customers, Pagination: entry.pagination}
	}

	stops, total, err := p.fetch.FetchPage(ctx, code, page, pageSize)
	if err != nil {
		logrus.WithError(err).WithField("code", code).Error("customer page fetch failed, serving placeholders")
		return Page{Customers: placeholderStops(code), ErrMsg: err.Error()}
	}
	if stops == nil {
		// gorm leaves the slice nil on zero rows; cache an empty slice so
		// empty codes still hit the cache instead of refetching every time.
		stops = []models.CustomerStop{}
	}

	result := Page{Customers: stops, Pagination: NewPagination(page, pageSize, total)}
	p.cache[code] = cachedPage{
		customers:   stops,
		pagination:  result.Pagination,
		serviceDays: serviceDays,
	}
	return result
}

// Invalidate drops the cached page for a code so the next Load refetches.
// Invalidation is always explicit; entries never expire on their own.
func (p *Pager) Invalidate(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, code)
}

// placeholderStops are the degraded-mode records shown when the store is
// unreachable. They are flagged so the UI can render them distinctly.
func placeholderStops(code string) []models.CustomerStop {
	return []models.CustomerStop{
		{Code: code, CustomerName: "Customer data unavailable", Placeholder: true},
		{Code: code, CustomerName: "Retry shortly", Placeholder: true},
	}
}

func containsFold(days []string, target string) bool {
	for _, d := range days {
		if strings.EqualFold(strings.TrimSpace(d), target) {
			return true
		}
	}
	return false
}
