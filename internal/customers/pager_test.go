package customers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeboard/internal/models"
)

// fakeFetcher records calls and serves canned pages. With echo set it serves
// a single stop carrying the requested code instead of the canned slice.
type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	stops []models.CustomerStop
	total int64
	err   error
	echo  bool
}

func (f *fakeFetcher) FetchPage(_ context.Context, code string, page, pageSize int) ([]models.CustomerStop, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, 0, f.err
	}
	if f.echo {
		return []models.CustomerStop{{Code: code, CustomerName: "Customer " + code}}, 1, nil
	}
	return f.stops, f.total, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// tuesday is a fixed clock: 2024-01-02 was a Tuesday.
func tuesday() time.Time {
	return time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
}

func TestLoadShortCircuitsOnNonServiceDay(t *testing.T) {
	fetch := &fakeFetcher{stops: []models.CustomerStop{{Code: "A"}}, total: 1}
	p := NewPager(fetch, tuesday)

	page := p.Load(context.Background(), "A", []string{"Monday"}, 1, 10)

	assert.Nil(t, page.Customers)
	assert.Nil(t, page.Pagination)
	assert.Empty(t, page.ErrMsg)
	assert.Equal(t, 0, fetch.callCount(), "no fetch may happen on a non-service day")
}

func TestLoadFetchesAndCaches(t *testing.T) {
	fetch := &fakeFetcher{
		stops: []models.CustomerStop{
			{Code: "A", CustomerName: "Acme"},
			{Code: "A", CustomerName: "Bravo"},
		},
		total: 25,
	}
	p := NewPager(fetch, tuesday)

	page := p.Load(context.Background(), "A", []string{"Tuesday"}, 1, 10)

	require.Len(t, page.Customers, 2)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, int64(25), page.Pagination.TotalCount)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNextPage)
	assert.False(t, page.Pagination.HasPreviousPage)
	assert.Equal(t, 1, fetch.callCount())

	// Second call for the same code serves the cached snapshot — even when a
	// different page is requested. Known limitation, kept on purpose.
	again := p.Load(context.Background(), "A", []string{"Tuesday"}, 2, 10)
	assert.Equal(t, 1, fetch.callCount(), "cached code must not refetch")
	assert.Equal(t, 1, again.Pagination.Page, "cache serves whatever page was first fetched")
}

func TestLoadEmptyCodeIsCachedToo(t *testing.T) {
	fetch := &fakeFetcher{stops: nil, total: 0}
	p := NewPager(fetch, tuesday)

	page := p.Load(context.Background(), "EMPTY", []string{"Tuesday"}, 1, 10)
	require.NotNil(t, page.Customers, "zero-row result must still be a non-nil slice")
	assert.Len(t, page.Customers, 0)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, 0, page.Pagination.TotalPages)

	p.Load(context.Background(), "EMPTY", []string{"Tuesday"}, 1, 10)
	assert.Equal(t, 1, fetch.callCount(), "empty codes must hit the cache, not refetch")
}

func TestLoadDistinctCodesFetchSeparately(t *testing.T) {
	fetch := &fakeFetcher{stops: []models.CustomerStop{{Code: "X"}}, total: 1}
	p := NewPager(fetch, tuesday)

	p.Load(context.Background(), "A", []string{"Tuesday"}, 1, 10)
	p.Load(context.Background(), "B", []string{"Tuesday"}, 1, 10)

	assert.Equal(t, 2, fetch.callCount())
}

func TestLoadResultsAreIsolatedPerCall(t *testing.T) {
	fetch := &fakeFetcher{echo: true}
	p := NewPager(fetch, tuesday)

	pageA := p.Load(context.Background(), "A", []string{"Tuesday"}, 1, 10)
	pageB := p.Load(context.Background(), "B", []string{"Tuesday"}, 1, 10)

	// A later load for another code must not alter an earlier caller's page.
	require.Len(t, pageA.Customers, 1)
	assert.Equal(t, "A", pageA.Customers[0].Code)
	require.Len(t, pageB.Customers, 1)
	assert.Equal(t, "B", pageB.Customers[0].Code)
}

func TestConcurrentLoadsReturnTheirOwnCode(t *testing.T) {
	fetch := &fakeFetcher{echo: true}
	p := NewPager(fetch, tuesday)

	var wg sync.WaitGroup
	errs := make(chan error, 24)
	for i := 0; i < 24; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := fmt.Sprintf("C%d", i%4)
			page := p.Load(context.Background(), code, []string{"Tuesday"}, 1, 10)
			if len(page.Customers) != 1 || page.Customers[0].Code != code {
				errs <- fmt.Errorf("loaded %q, got customers for %v", code, page.Customers)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestLoadFailureServesPlaceholders(t *testing.T) {
	fetch := &fakeFetcher{err: errors.New("store unreachable")}
	p := NewPager(fetch, tuesday)

	page := p.Load(context.Background(), "A", []string{"Tuesday"}, 1, 10)

	assert.Equal(t, "store unreachable", page.ErrMsg)
	require.Len(t, page.Customers, 2, "degraded mode shows exactly two placeholders")
	for _, cstop := range page.Customers {
		assert.True(t, cstop.Placeholder, "placeholder records must be flagged")
	}
	assert.Nil(t, page.Pagination, "pagination stays unset on failure")

	// Failures are not cached; the next load retries.
	p.Load(context.Background(), "A", []string{"Tuesday"}, 1, 10)
	assert.Equal(t, 2, fetch.callCount())
}

func TestInvalidateForcesRefetch(t *testing.T) {
	fetch := &fakeFetcher{stops: []models.CustomerStop{{Code: "A"}}, total: 1}
	p := NewPager(fetch, tuesday)

	p.Load(context.Background(), "A", []string{"Tuesday"}, 1, 10)
	p.Invalidate("A")
	p.Load(context.Background(), "A", []string{"Tuesday"}, 1, 10)

	assert.Equal(t, 2, fetch.callCount())
}

func TestLoadServiceDayMatchIsCaseInsensitive(t *testing.T) {
	fetch := &fakeFetcher{stops: []models.CustomerStop{{Code: "A"}}, total: 1}
	p := NewPager(fetch, tuesday)

	p.Load(context.Background(), "A", []string{"tuesday"}, 1, 10)
	assert.Equal(t, 1, fetch.callCount())
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageSize  int
		total     int64
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"empty result", 1, 10, 0, 0, false, false},
		{"exact single page", 1, 10, 10, 1, false, false},
		{"partial last page", 1, 10, 11, 2, true, false},
		{"middle page", 2, 10, 35, 4, true, true},
		{"last page", 4, 10, 35, 4, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := NewPagination(tt.page, tt.pageSize, tt.total)
			assert.Equal(t, tt.wantPages, pg.TotalPages)
			assert.Equal(t, tt.wantNext, pg.HasNextPage)
			assert.Equal(t, tt.wantPrev, pg.HasPreviousPage)
			assert.Equal(t, tt.total, pg.TotalCount)
		})
	}
}
