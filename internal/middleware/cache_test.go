package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"movie-booking-catalog/internal/config"
)

func cacheKeyFor(cfg config.CacheConfig, target, route string, params ...string) string {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(route)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	return cacheKeyFrom(cfg, c)
}

func TestCacheKeyDistinctPerPathParam(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	// Requests that differ only in a path parameter must not share a key,
	// even though they resolve to the same registered route.
	one := cacheKeyFor(cfg, "/v1/theaters/1/availability?date=2026-08-30",
		"/v1/theaters/:id/availability", "id", "1")
	two := cacheKeyFor(cfg, "/v1/theaters/2/availability?date=2026-08-30",
		"/v1/theaters/:id/availability", "id", "2")
	assert.NotEqual(t, one, two)

	b42 := cacheKeyFor(cfg, "/v1/bookings/42", "/v1/bookings/:id", "id", "42")
	b43 := cacheKeyFor(cfg, "/v1/bookings/43", "/v1/bookings/:id", "id", "43")
	assert.NotEqual(t, b42, b43)
}

func TestCacheKeyStableAndQuerySensitive(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	route := "/v1/theaters/:id/availability"

	a := cacheKeyFor(cfg, "/v1/theaters/1/availability?date=2026-08-30", route, "id", "1")
	b := cacheKeyFor(cfg, "/v1/theaters/1/availability?date=2026-08-30", route, "id", "1")
	assert.Equal(t, a, b)

	other := cacheKeyFor(cfg, "/v1/theaters/1/availability?date=2026-08-31", route, "id", "1")
	assert.NotEqual(t, a, other)
}

func TestCacheKeyStrategies(t *testing.T) {
	route := "/v1/movies"
	target := "/v1/movies?language=Telugu"

	routeOnly := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	withQuery := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	// The "route" strategy deliberately ignores the query string.
	a := cacheKeyFor(routeOnly, target, route)
	b := cacheKeyFor(routeOnly, "/v1/movies?language=Hindi", route)
	assert.Equal(t, a, b)

	c := cacheKeyFor(withQuery, target, route)
	d := cacheKeyFor(withQuery, "/v1/movies?language=Hindi", route)
	assert.NotEqual(t, c, d)
}
