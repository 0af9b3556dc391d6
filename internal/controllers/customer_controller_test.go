package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Boundary validation runs before any store access, so these requests are
// served without a database.

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/customers/by-location", CustomersByLocation)
	r.GET("/routes/groups", RouteGroups)
	return r
}

func TestCustomersByLocationRequiresCode(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/customers/by-location", nil)

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "code query parameter is required")
}

func TestCustomersByLocationRejectsOutOfBoundPagination(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"zero page", "/customers/by-location?code=A&page=0"},
		{"negative page", "/customers/by-location?code=A&page=-3"},
		{"non-numeric page", "/customers/by-location?code=A&page=abc"},
		{"zero page_size", "/customers/by-location?code=A&page_size=0"},
		{"oversized page_size", "/customers/by-location?code=A&page_size=101"},
	}

	r := testRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)

			r.ServeHTTP(w, req)

			// Strict rejection, never clamping: the stops listing clamps,
			// this endpoint does not.
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestCoordFieldNormalizesLooseValues(t *testing.T) {
	row := map[string]any{
		"single_string": "-26.20",
		"number":        float64(28.04),
		"mixed_list":    []any{"-26.20", float64(28), nil, ""},
		"empty":         "",
	}

	assert.Equal(t, []string{"-26.20"}, []string(coordField(row, "single_string")))
	assert.Equal(t, []string{"28.04"}, []string(coordField(row, "number")))
	assert.Equal(t, []string{"-26.20", "28"}, []string(coordField(row, "mixed_list")))
	assert.Empty(t, coordField(row, "empty"))
	assert.Empty(t, coordField(row, "missing"))
}

func TestRouteGroupsRejectsBadRadius(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"zero", "/routes/groups?radius_km=0"},
		{"negative", "/routes/groups?radius_km=-2"},
		{"too large", "/routes/groups?radius_km=500"},
		{"not a number", "/routes/groups?radius_km=wide"},
	}

	r := testRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)

			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
