package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raushankrgupta/udyam-registration/models"
	"github.com/raushankrgupta/udyam-registration/otp"
	"github.com/raushankrgupta/udyam-registration/pincode"
	"github.com/raushankrgupta/udyam-registration/schema"
	"github.com/raushankrgupta/udyam-registration/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("server selection error: context deadline exceeded")

type failingStore struct{}

func (failingStore) InsertOTP(context.Context, models.OtpRecord) error { return errDown }
func (failingStore) FindOTP(context.Context, string, string) (*models.OtpRecord, error) {
	return nil, errDown
}
func (failingStore) InsertPAN(context.Context, models.PanRecord) error { return errDown }
func (failingStore) InsertRegistration(context.Context, models.Registration) (string, error) {
	return "", errDown
}

type fakePincodes map[string]*pincode.Place

func (f fakePincodes) Lookup(_ context.Context, code string) (*pincode.Place, error) {
	if p, ok := f[code]; ok {
		return p, nil
	}
	return nil, pincode.ErrNotFound
}

func testSchema() *schema.FormSchema {
	return schema.New("test", "", []schema.FieldDescriptor{
		{Name: "aadhaar", Label: "Aadhaar Number", Required: true, Pattern: `^\d{12}$`},
		{Name: "name", Label: "Name of Entrepreneur", Required: true},
		{Name: "pan", Label: "PAN", Pattern: `^[A-Z]{5}[0-9]{4}[A-Z]{1}$`},
		{Name: "orgType", Label: "Type of Organisation", Required: true},
	})
}

func newTestServer(t *testing.T, s *schema.FormSchema) (http.Handler, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	srv := NewServer(Dependencies{
		Schema:        s,
		OTP:           otp.NewService(mem),
		PANs:          mem,
		Registrations: mem,
		Pincodes:      fakePincodes{"110001": {State: "Delhi", District: "Central Delhi"}},
	})
	return srv.Routes(), mem
}

func newFailingServer(t *testing.T) http.Handler {
	t.Helper()
	srv := NewServer(Dependencies{
		Schema:        testSchema(),
		OTP:           otp.NewService(failingStore{}),
		PANs:          failingStore{},
		Registrations: failingStore{},
	})
	return srv.Routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestSchemaEndpoint(t *testing.T) {
	h, _ := newTestServer(t, testSchema())
	rec, body := do(t, h, http.MethodGet, "/api/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fields, ok := body["fields"].([]any)
	require.True(t, ok)
	assert.Len(t, fields, 4)
}

func TestHealthAndWelcome(t *testing.T) {
	h, _ := newTestServer(t, testSchema())

	rec, body := do(t, h, http.MethodGet, "/api", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "udyam-backend", body["service"])

	rec, _ = do(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Udyam API", rec.Body.String())
}

func TestValidateRejectsInvalidPAN(t *testing.T) {
	h, _ := newTestServer(t, testSchema())

	rec, body := do(t, h, http.MethodPost, "/api/validate", map[string]any{
		"aadhaar": "123456789012", "name": "Asha", "orgType": "llp", "pan": "ABC123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, "pan", first["field"])
	assert.Regexp(t, `(?i)invalid`, first["msg"])
}

func TestValidateAcceptsConformingRecord(t *testing.T) {
	h, _ := newTestServer(t, testSchema())
	rec, body := do(t, h, http.MethodPost, "/api/validate", map[string]any{
		"aadhaar": "123456789012", "name": "Asha", "orgType": "llp", "pan": "ABCDE1234F",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"ok": true}, body)
}

func TestMalformedBody(t *testing.T) {
	h, _ := newTestServer(t, testSchema())
	for _, path := range []string{"/api/validate", "/api/generate-otp", "/api/verify-otp", "/api/submit-pan", "/api/submit"} {
		rec, body := do(t, h, http.MethodPost, path, `{"aadhaar":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "Invalid request body", body["error"], path)
	}
}

func TestNullBodyRejected(t *testing.T) {
	h, mem := newTestServer(t, schema.Empty())
	for _, path := range []string{"/api/validate", "/api/generate-otp", "/api/submit-pan", "/api/submit"} {
		rec, body := do(t, h, http.MethodPost, path, `null`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "Invalid request body", body["error"], path)
	}
	assert.Zero(t, mem.RegistrationCount())
}

func TestOTPRoundTrip(t *testing.T) {
	h, mem := newTestServer(t, testSchema())

	rec, body := do(t, h, http.MethodPost, "/api/generate-otp", map[string]any{
		"aadhaar": "123456789012", "name": "Asha Rao", "consent": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "OTP generated successfully", body["message"])
	code, _ := body["otp"].(string)
	require.Len(t, code, 6)
	require.Len(t, mem.OTPs(), 1)

	rec, body = do(t, h, http.MethodPost, "/api/verify-otp", map[string]any{"aadhaar": "123456789012", "otp": code})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])

	wrong := "100000"
	if code == wrong {
		wrong = "100001"
	}
	rec, body = do(t, h, http.MethodPost, "/api/verify-otp", map[string]any{"aadhaar": "123456789012", "otp": wrong})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OTP", body["error"])
}

func TestGenerateOTPValidation(t *testing.T) {
	h, mem := newTestServer(t, testSchema())

	rec, body := do(t, h, http.MethodPost, "/api/generate-otp", map[string]any{
		"aadhaar": "12345", "name": "Asha Rao", "consent": true,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body, "errors")

	rec, body = do(t, h, http.MethodPost, "/api/generate-otp", map[string]any{
		"aadhaar": "123456789012", "name": "Asha Rao", "consent": false,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", body["error"])
	assert.Empty(t, mem.OTPs())
}

func TestVerifyOTPMissingFields(t *testing.T) {
	h := newFailingServer(t)
	rec, body := do(t, h, http.MethodPost, "/api/verify-otp", map[string]any{"aadhaar": "123456789012"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Aadhaar and OTP are required", body["error"])
}

func TestPersistenceFailuresAreGeneric(t *testing.T) {
	h := newFailingServer(t)

	rec, body := do(t, h, http.MethodPost, "/api/generate-otp", map[string]any{
		"aadhaar": "123456789012", "name": "Asha Rao", "consent": true,
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", body["error"])

	rec, body = do(t, h, http.MethodPost, "/api/verify-otp", map[string]any{"aadhaar": "123456789012", "otp": "123456"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", body["error"])

	rec, body = do(t, h, http.MethodPost, "/api/submit", map[string]any{
		"aadhaar": "123456789012", "name": "Asha", "orgType": "llp",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "DB save failed", body["message"])
	assert.NotContains(t, rec.Body.String(), errDown.Error())
}

func TestSubmitPAN(t *testing.T) {
	h, mem := newTestServer(t, testSchema())
	valid := map[string]any{
		"aadhaar": "123456789012", "orgType": "proprietorship", "pan": "ABCDE1234F",
		"panName": "Asha Rao", "panDob": "1990-01-31", "panConsent": true,
	}

	rec, body := do(t, h, http.MethodPost, "/api/submit-pan", valid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	pans := mem.PANs()
	require.Len(t, pans, 1)
	assert.Equal(t, "ABCDE1234F", pans[0].PAN)
	assert.True(t, pans[0].PANConsent)

	for _, pan := range []string{"ABC123", "abcde1234f"} {
		bad := map[string]any{}
		for k, v := range valid {
			bad[k] = v
		}
		bad["pan"] = pan
		rec, body = do(t, h, http.MethodPost, "/api/submit-pan", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, pan)
		assert.Equal(t, "Invalid PAN format", body["error"], pan)
	}

	rec, body = do(t, h, http.MethodPost, "/api/submit-pan", map[string]any{"aadhaar": "123456789012", "pan": "ABCDE1234F"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All PAN fields are required", body["error"])
	assert.Len(t, mem.PANs(), 1)
}

func TestSubmitStoresRecordAsIs(t *testing.T) {
	h, mem := newTestServer(t, testSchema())

	rec, body := do(t, h, http.MethodPost, "/api/submit", map[string]any{
		"aadhaar": "123456789012", "name": "Asha", "orgType": "llp", "extra": "kept",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	reg, ok := mem.Registration(id)
	require.True(t, ok)
	assert.Equal(t, "kept", reg.Values["extra"])
	assert.False(t, reg.CreatedAt.IsZero())
	assert.Equal(t, reg.CreatedAt, reg.UpdatedAt)
}

func TestSubmitValidationErrors(t *testing.T) {
	h, _ := newTestServer(t, testSchema())
	rec, body := do(t, h, http.MethodPost, "/api/submit", map[string]any{"aadhaar": "123456789012"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs, _ := body["errors"].([]any)
	assert.Len(t, errs, 2)
}

func TestEmptySchemaModeStillValidatesSafely(t *testing.T) {
	h, mem := newTestServer(t, schema.Empty())

	rec, body := do(t, h, http.MethodGet, "/api/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["fields"])

	rec, _ = do(t, h, http.MethodPost, "/api/validate", map[string]any{"pan": "ABC123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = do(t, h, http.MethodPost, "/api/generate-otp", map[string]any{"aadhaar": "1", "name": "A", "consent": true})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["otp"])

	rec, body = do(t, h, http.MethodPost, "/api/submit-pan", map[string]any{
		"aadhaar": "1", "orgType": "llp", "pan": "abc", "panName": "A", "panDob": "2000-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid PAN format", body["error"])
	assert.Empty(t, mem.PANs())
}

func TestPincodeProxy(t *testing.T) {
	h, _ := newTestServer(t, testSchema())

	rec, body := do(t, h, http.MethodGet, "/api/pincode/110001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"state": "Delhi", "district": "Central Delhi"}, body)

	rec, _ = do(t, h, http.MethodGet, "/api/pincode/11000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/pincode/999999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestServer(t, testSchema())
	rec, _ := do(t, h, http.MethodGet, "/api/submit", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidPAN(t *testing.T) {
	assert.True(t, ValidPAN("ABCDE1234F"))
	assert.False(t, ValidPAN("ABC123"))
	assert.False(t, ValidPAN("abcde1234f"))
}
