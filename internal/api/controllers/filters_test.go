package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threat-radar/internal/models"
)

func filterContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/api/v1/threats?"+rawQuery, nil)
	return ctx
}

func TestParseFiltersDefaults(t *testing.T) {
	filters, err := parseFilters(filterContext(t, ""))
	require.NoError(t, err)

	defaults := models.DefaultFilters()
	assert.Equal(t, defaults.Severities, filters.Severities)
	assert.Equal(t, defaults.TimeRange, filters.TimeRange)
	assert.True(t, filters.ShowThreats)
	assert.True(t, filters.ShowAssets)
}

func TestParseFiltersFull(t *testing.T) {
	query := "q=ransom&severities=critical,high&statuses=active&range=last_7d&assets=prod-a,prod-b&show_assets=false"
	filters, err := parseFilters(filterContext(t, query))
	require.NoError(t, err)

	assert.Equal(t, "ransom", filters.Query)
	assert.Equal(t, []models.Severity{models.SeverityCritical, models.SeverityHigh}, filters.Severities)
	assert.Equal(t, []models.Status{models.StatusActive}, filters.Statuses)
	assert.Equal(t, models.TimeRangeLast7d, filters.TimeRange)
	assert.Equal(t, []string{"prod-a", "prod-b"}, filters.AssetIDs)
	assert.True(t, filters.ShowThreats)
	assert.False(t, filters.ShowAssets)
}

func TestParseFiltersInvalidSeverity(t *testing.T) {
	_, err := parseFilters(filterContext(t, "severities=catastrophic"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid severity")
}

func TestParseFiltersInvalidTimeRange(t *testing.T) {
	_, err := parseFilters(filterContext(t, "range=last_century"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time range")
}
