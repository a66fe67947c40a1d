package generic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raushankrgupta/udyam-registration/schema"
	"github.com/raushankrgupta/udyam-registration/scrapers/base"
)

// GenericScraper accepts any http(s) page that has form controls.
type GenericScraper struct {
	*base.BaseScraper
}

func NewGenericScraper() *GenericScraper {
	return &GenericScraper{BaseScraper: base.NewBaseScraper()}
}

func (s *GenericScraper) CanScrape(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (s *GenericScraper) ScrapeSchema(ctx context.Context, url string) (*schema.FormSchema, error) {
	doc, err := s.FetchDocument(ctx, url, base.HasFormFields)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", url, err)
	}
	return schema.New(url, time.Now().Format(time.ANSIC), base.ExtractFields(doc)), nil
}
