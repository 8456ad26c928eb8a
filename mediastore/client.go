// Package mediastore uploads images to the external asset host and returns
// the public id and url the rest of the system stores.
package mediastore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 10 * time.Second

// Store is what services need from an image host.
type Store interface {
	Upload(ctx context.Context, folder, filename string, body io.Reader) (models.Asset, error)
	Delete(ctx context.Context, publicID string) error
}

type Client struct {
	http    *resty.Client
	circuit *breaker
}

type uploadResponse struct {
	PublicID string `json:"public_id"`
	URL      string `json:"secure_url"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// New returns nil when baseURL is empty; services treat a nil Store as
// "uploads disabled".
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		return nil
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		httpClient.SetAuthToken(apiKey)
	}
	return &Client{http: httpClient, circuit: newBreaker("MediaStore")}
}

func (c *Client) Upload(ctx context.Context, folder, filename string, body io.Reader) (models.Asset, error) {
	res, err := c.circuit.run(func() (interface{}, error) {
		var out uploadResponse
		var apiErr errorResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetFileReader("file", filename, body).
			SetFormData(map[string]string{"folder": folder}).
			SetResult(&out).
			SetError(&apiErr).
			Post("/upload")
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", filename, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("upload %s: status %d: %s", filename, resp.StatusCode(), apiErr.Error.Message)
		}
		return models.Asset{PublicID: out.PublicID, URL: out.URL}, nil
	})
	if err != nil {
		return models.Asset{}, err
	}
	return res.(models.Asset), nil
}

func (c *Client) Delete(ctx context.Context, publicID string) error {
	_, err := c.circuit.run(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParam("id", publicID).
			Delete("/assets/{id}")
		if err != nil {
			return nil, fmt.Errorf("delete %s: %w", publicID, err)
		}
		if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
			return nil, fmt.Errorf("delete %s: status %d", publicID, resp.StatusCode())
		}
		return nil, nil
	})
	return err
}
