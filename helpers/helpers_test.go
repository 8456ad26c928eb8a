package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPageFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/bookings?page=3&limit=500", nil)
	assert.Equal(t, store.Page{Page: 3, Limit: MaxLimit}, PageFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/api/bookings?page=-1&limit=abc", nil)
	assert.Equal(t, store.Page{Page: 1, Limit: DefaultLimit}, PageFromRequest(r))
}

func TestMongoPaginateFindOptions(t *testing.T) {
	sort := bson.D{{Key: "createdAt", Value: -1}}
	opts := NewMongoPaginate(store.Page{Page: 3, Limit: 10}, sort).BuildFindOptions()
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 20, *opts.Skip)
	assert.EqualValues(t, 10, *opts.Limit)
	assert.Equal(t, sort, opts.Sort)

	all := NewMongoPaginate(store.Page{}, nil).BuildFindOptions()
	assert.Nil(t, all.Limit)
	assert.Equal(t, bson.D{}, all.Sort)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(store.Page{Page: 2, Limit: 10}, 21)
	assert.Equal(t, int64(3), p.Pages)
	assert.Equal(t, int64(21), p.Total)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("x: %w", models.ErrInsufficientBalance): http.StatusBadRequest,
		fmt.Errorf("x: %w", models.ErrNotFound):            http.StatusNotFound,
		models.ErrForbidden:                                http.StatusForbidden,
		models.ErrConflict:                                 http.StatusConflict,
		fmt.Errorf("socket closed"):                        http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), err.Error())
	}
}

func TestErrorHidesServerDetailOutsideDebug(t *testing.T) {
	rs := Responder{Log: logrus.NewEntry(logrus.New())}
	rec := httptest.NewRecorder()
	rs.Error(rec, httptest.NewRequest(http.MethodGet, "/x", nil), fmt.Errorf("connection refused"))

	var body Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, body.Success)
	assert.Empty(t, body.Error)
}

type sample struct {
	Name   string `json:"name" validate:"required"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

func TestDecodeJSONValidates(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","rating":9}`))
	var s sample
	err := DecodeJSON(r, &s)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "Rating")
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
