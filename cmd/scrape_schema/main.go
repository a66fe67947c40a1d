package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/raushankrgupta/udyam-registration/config"
	"github.com/raushankrgupta/udyam-registration/schema"
	"github.com/raushankrgupta/udyam-registration/scrapers"
	"github.com/raushankrgupta/udyam-registration/utils"
)

func main() {
	cfg := config.LoadConfig()

	url := flag.String("url", cfg.ScrapeURL, "page to scrape")
	out := flag.String("out", "form_schema.json", "where to write the schema")
	upload := flag.Bool("upload", false, "also upload the schema to AWS_BUCKET_NAME")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall scrape timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	scraper, err := scrapers.GetScraper(*url)
	if err != nil {
		log.Fatalf("Failed to get scraper for %s: %v", *url, err)
	}
	fmt.Printf("Scraper: %T\n", scraper)

	fs, err := scraper.ScrapeSchema(ctx, *url)
	if err != nil {
		log.Fatalf("Failed to scrape schema: %v", err)
	}
	for _, issue := range fs.Issues() {
		log.Printf("Schema issue: %v", issue)
	}

	data, err := encode(fs)
	if err != nil {
		log.Fatalf("Failed to encode schema: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	fmt.Printf("Saved %d fields to %s\n", fs.Len(), *out)

	if !*upload {
		return
	}
	if cfg.AWSBucketName == "" {
		log.Fatal("AWS_BUCKET_NAME is not set")
	}
	objects, err := utils.NewObjectStore(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("Failed to init S3: %v", err)
	}
	uri, err := objects.PutObject(ctx, cfg.AWSBucketName, "schemas/"+filepath.Base(*out), data, "application/json")
	if err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	fmt.Printf("Uploaded to %s (set SCHEMA_SOURCE=%s to serve it)\n", uri, uri)
}

// encode writes the schema indented and leaves "&", "<" and ">" in labels
// unescaped.
func encode(fs *schema.FormSchema) ([]byte, error) {
	doc := struct {
		Source    string                   `json:"source"`
		FetchedAt string                   `json:"fetched_at"`
		Fields    []schema.FieldDescriptor `json:"fields"`
	}{fs.Source(), fs.FetchedAt(), fs.Fields()}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
