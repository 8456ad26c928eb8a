package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRangeCoversWholeEndDay(t *testing.T) {
	r := httptest.NewRequest("GET", "/?start_date=2025-03-01&end_date=2025-03-02", nil)
	rng, err := dateRange(r)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local), rng.From)
	assert.True(t, rng.To.After(time.Date(2025, 3, 2, 23, 59, 59, 0, time.Local)))
	assert.True(t, rng.To.Before(time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)))
}

func TestDateRangeOpenEnds(t *testing.T) {
	rng, err := dateRange(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.True(t, rng.From.IsZero())
	assert.True(t, rng.To.IsZero())
}

func TestDateRangeRejectsBadInput(t *testing.T) {
	_, err := dateRange(httptest.NewRequest("GET", "/?start_date=2025-03-05&end_date=2025-03-01", nil))
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = dateRange(httptest.NewRequest("GET", "/?start_date=03/05/2025", nil))
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestQueryBool(t *testing.T) {
	v, ok := queryBool(httptest.NewRequest("GET", "/?available=true", nil), "available")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = queryBool(httptest.NewRequest("GET", "/", nil), "available")
	assert.False(t, ok)
}

func TestCurrentUserWithoutClaims(t *testing.T) {
	_, err := currentUser(httptest.NewRequest("GET", "/", nil))
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}
