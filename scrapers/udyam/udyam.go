package udyam

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/raushankrgupta/udyam-registration/schema"
	"github.com/raushankrgupta/udyam-registration/scrapers/base"
)

// RegistrationURL is the public registration form.
const RegistrationURL = "https://udyamregistration.gov.in/UdyamRegistration.aspx"

// ErrFormMissing means the page loaded but the Aadhaar form was not on it.
var ErrFormMissing = errors.New("udyam: registration form not found")

type UdyamScraper struct {
	*base.BaseScraper
	now func() time.Time
}

func NewUdyamScraper() *UdyamScraper {
	return &UdyamScraper{
		BaseScraper: base.NewBaseScraper(),
		now:         time.Now,
	}
}

func (s *UdyamScraper) CanScrape(url string) bool {
	return strings.Contains(url, "udyamregistration.gov.in")
}

// hasAadhaarForm rejects interstitials and error pages that lack step one.
func hasAadhaarForm(doc *goquery.Document) bool {
	return doc.Find(`input[name*="txtadharno"], input[id*="txtadharno"]`).Length() > 0
}

func (s *UdyamScraper) ScrapeSchema(ctx context.Context, url string) (*schema.FormSchema, error) {
	doc, err := s.FetchDocument(ctx, url, hasAadhaarForm)
	if err != nil {
		return nil, err
	}

	fields := base.ExtractFields(doc)
	if len(fields) == 0 {
		return nil, ErrFormMissing
	}
	return schema.New(url, s.now().Format(time.ANSIC), fields), nil
}
