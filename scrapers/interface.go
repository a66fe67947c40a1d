package scrapers

import (
	"context"

	"github.com/raushankrgupta/udyam-registration/schema"
)

// FormScraper builds a form schema from a live page.
type FormScraper interface {
	// CanScrape checks if the scraper can handle the given URL
	CanScrape(url string) bool
	// ScrapeSchema loads the page and describes its form controls
	ScrapeSchema(ctx context.Context, url string) (*schema.FormSchema, error)
}
