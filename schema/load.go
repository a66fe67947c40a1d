package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a schema document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf guesses the format from a path or URL extension.
func FormatOf(name string) Format {
	if u, err := url.Parse(name); err == nil && u.Path != "" {
		name = u.Path
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a schema document of the given format.
func Parse(source string, data []byte, format Format) (*FormSchema, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ConfigurationError{Source: source, Err: err}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, &ConfigurationError{Source: source, Err: err}
		}
	}
	if doc.Source == "" {
		doc.Source = source
	}
	return New(doc.Source, doc.FetchedAt, doc.Fields), nil
}

// ObjectFetcher reads objects from a bucket store such as S3.
type ObjectFetcher interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// LoadOptions configures where Load may read from.
type LoadOptions struct {
	// Objects serves s3:// sources. Nil disables them.
	Objects ObjectFetcher
	// HTTPClient serves http(s):// sources. Defaults to a client with a 15s timeout.
	HTTPClient *http.Client
}

// Load reads a schema from a file path, an s3://bucket/key URI or an
// http(s) URL. Every failure is a *ConfigurationError.
func Load(ctx context.Context, source string, opts LoadOptions) (*FormSchema, error) {
	if source == "" {
		return nil, &ConfigurationError{Source: source, Err: ErrNoSource}
	}

	data, err := read(ctx, source, opts)
	if err != nil {
		return nil, &ConfigurationError{Source: source, Err: err}
	}
	return Parse(source, data, FormatOf(source))
}

func read(ctx context.Context, source string, opts LoadOptions) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "s3://"):
		if opts.Objects == nil {
			return nil, fmt.Errorf("no object store configured for %s", source)
		}
		bucket, key, err := splitBucketKey(source)
		if err != nil {
			return nil, err
		}
		return opts.Objects.GetObject(ctx, bucket, key)

	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: 15 * time.Second}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		res, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
		}
		return io.ReadAll(res.Body)

	default:
		return os.ReadFile(source)
	}
}

func splitBucketKey(uri string) (string, string, error) {
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q, want s3://bucket/key", uri)
	}
	return bucket, key, nil
}
