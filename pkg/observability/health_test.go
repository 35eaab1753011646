package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLivenessAlwaysHealthy(t *testing.T) {
	h := NewHealthChecker()
	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessWithoutChecks(t *testing.T) {
	h := NewHealthChecker()
	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessFailsWhenCheckFails(t *testing.T) {
	h := NewHealthChecker()
	h.AddCheck("index", func(context.Context) error { return errors.New("drift detected") })
	h.AddCheck("other", func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	status := h.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, "drift detected", status.Checks["index"])
	assert.Equal(t, StatusHealthy, status.Checks["other"])
}
