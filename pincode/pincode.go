// Package pincode resolves Indian postal codes to state and district and
// fills them into form values.
package pincode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public postal-code directory.
const DefaultBaseURL = "https://api.postalpincode.in"

// ErrNotFound is returned when the directory has no post office for a code.
var ErrNotFound = errors.New("pincode: not found")

// Place is the locality a postal code belongs to.
type Place struct {
	State    string `json:"state"`
	District string `json:"district"`
}

// Lookuper resolves a postal code.
type Lookuper interface {
	Lookup(ctx context.Context, code string) (*Place, error)
}

type postOffice struct {
	Name     string `json:"Name"`
	District string `json:"District"`
	State    string `json:"State"`
}

type directoryResult struct {
	Message    string       `json:"Message"`
	Status     string       `json:"Status"`
	PostOffice []postOffice `json:"PostOffice"`
}

// Client queries the directory over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup fetches {base}/pincode/{code} and returns the first post office's
// state and district.
func (c *Client) Lookup(ctx context.Context, code string) (*Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/pincode/"+code, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pincode lookup: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pincode lookup: status code error: %d %s", res.StatusCode, res.Status)
	}

	var results []directoryResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("pincode lookup: decode: %w", err)
	}
	if len(results) == 0 || results[0].Status != "Success" || len(results[0].PostOffice) == 0 {
		return nil, ErrNotFound
	}

	p := results[0].PostOffice[0]
	return &Place{State: p.State, District: p.District}, nil
}
