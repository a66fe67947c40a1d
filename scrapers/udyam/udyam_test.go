package udyam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/udyam-registration/scrapers/base"
)

const page = `<html><body><form>
<label for="adhar">Aadhaar Number</label>
<input id="adhar" name="ctl00$ContentPlaceHolder1$txtadharno" maxlength="12" required>
<input name="ctl00$ContentPlaceHolder1$txtownername" placeholder="Name as per Aadhaar">
</form></body></html>`

func httpOnly(s *UdyamScraper, client *http.Client) {
	s.Client = client
	s.Fetchers = []base.Fetcher{{Name: "HTTP", Fetch: s.FetchDocumentHTTP}}
}

func TestCanScrape(t *testing.T) {
	s := NewUdyamScraper()
	assert.True(t, s.CanScrape(RegistrationURL))
	assert.False(t, s.CanScrape("https://example.com/form"))
}

func TestScrapeSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewUdyamScraper()
	httpOnly(s, srv.Client())
	s.now = func() time.Time { return time.Date(2025, 8, 11, 10, 0, 0, 0, time.UTC) }

	fs, err := s.ScrapeSchema(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, fs.Source())
	assert.Equal(t, "Mon Aug 11 10:00:00 2025", fs.FetchedAt())
	require.Equal(t, 2, fs.Len())

	aadhaar, ok := fs.Field("ctl00$ContentPlaceHolder1$txtadharno")
	require.True(t, ok)
	assert.Equal(t, "Aadhaar Number", aadhaar.Label)
	assert.True(t, aadhaar.Required)
}

func TestScrapeSchemaRejectsPageWithoutForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><input name="q"></body></html>`))
	}))
	defer srv.Close()

	s := NewUdyamScraper()
	httpOnly(s, srv.Client())

	_, err := s.ScrapeSchema(context.Background(), srv.URL)
	assert.ErrorIs(t, err, base.ErrAllStrategiesFailed)
}
