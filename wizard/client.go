package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/udyam-registration/schema"
)

// APIError is a non-2xx answer from the registration API.
type APIError struct {
	Status  int
	Message string
	Fields  []schema.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api: %d: %d field error(s), first: %s", e.Status, len(e.Fields), e.Fields[0].Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// PANDetails is the payload of the PAN step.
type PANDetails struct {
	Aadhaar    string `json:"aadhaar"`
	OrgType    string `json:"orgType"`
	PAN        string `json:"pan"`
	PANName    string `json:"panName"`
	PANDob     string `json:"panDob"`
	PANConsent bool   `json:"panConsent"`
}

// Client talks to the registration API. It satisfies Submitter.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchSchema downloads the schema the server validates against.
func (c *Client) FetchSchema(ctx context.Context) (*schema.FormSchema, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/schema", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schema: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, decodeAPIError(res)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch schema: %w", err)
	}
	return schema.Parse(c.BaseURL+"/api/schema", data, schema.FormatJSON)
}

// Validate asks the server to check a record without storing it.
func (c *Client) Validate(ctx context.Context, values map[string]any) error {
	return c.post(ctx, "/api/validate", values, nil)
}

// GenerateOTP issues a code for the identifier and returns it.
func (c *Client) GenerateOTP(ctx context.Context, values map[string]any) (string, error) {
	var out struct {
		Message string `json:"message"`
		OTP     string `json:"otp"`
	}
	if err := c.post(ctx, "/api/generate-otp", values, &out); err != nil {
		return "", err
	}
	return out.OTP, nil
}

// VerifyOTP checks a code previously issued for aadhaar.
func (c *Client) VerifyOTP(ctx context.Context, aadhaar, code string) error {
	return c.post(ctx, "/api/verify-otp", map[string]string{"aadhaar": aadhaar, "otp": code}, nil)
}

// SubmitPAN stores the PAN step.
func (c *Client) SubmitPAN(ctx context.Context, details PANDetails) error {
	return c.post(ctx, "/api/submit-pan", details, nil)
}

// Submit stores the final registration and returns its id.
func (c *Client) Submit(ctx context.Context, values map[string]any) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/api/submit", values, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeAPIError(res)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}

func decodeAPIError(res *http.Response) error {
	var body struct {
		Error   string              `json:"error"`
		Message string              `json:"message"`
		Errors  []schema.FieldError `json:"errors"`
	}
	apiErr := &APIError{Status: res.StatusCode, Message: res.Status}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return apiErr
	}
	switch {
	case body.Error != "":
		apiErr.Message = body.Error
	case body.Message != "":
		apiErr.Message = body.Message
	}
	apiErr.Fields = body.Errors
	return apiErr
}
