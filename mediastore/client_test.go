package mediastore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "messmate/menu", r.FormValue("folder"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "thali.png", hdr.Filename)
		assert.Equal(t, "png-bytes", string(body))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"public_id":  "messmate/menu/abc",
			"secure_url": "https://cdn.example.com/abc.png",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	asset, err := c.Upload(context.Background(), "messmate/menu", "thali.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, models.Asset{PublicID: "messmate/menu/abc", URL: "https://cdn.example.com/abc.png"}, asset)
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":{"message":"bucket offline"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Upload(context.Background(), "f", "a.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket offline")
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	for i := 0; i < 3; i++ {
		require.Error(t, c.Delete(context.Background(), "x"))
	}
	err := c.Delete(context.Background(), "x")
	assert.ErrorIs(t, err, models.ErrUnavailable)
	assert.Equal(t, 3, calls)
}

func TestDeleteMissingAssetIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL, "").Delete(context.Background(), "gone"))
}

func TestNewWithoutURL(t *testing.T) {
	assert.Nil(t, New("", "key"))
}
