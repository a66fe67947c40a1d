package scrapers

import (
	"fmt"

	"github.com/raushankrgupta/udyam-registration/scrapers/generic"
	"github.com/raushankrgupta/udyam-registration/scrapers/udyam"
)

// GetScraper returns the first registered scraper that accepts url.
func GetScraper(url string) (FormScraper, error) {
	// Register scrapers here; the generic one goes last
	scrapers := []FormScraper{
		udyam.NewUdyamScraper(),
		generic.NewGenericScraper(),
	}

	for _, s := range scrapers {
		if s.CanScrape(url) {
			return s, nil
		}
	}

	return nil, fmt.Errorf("no scraper found for url: %s", url)
}
