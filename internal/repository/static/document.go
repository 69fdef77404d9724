// Package static serves a task list from a fixed, read-only document: a local file or an
// http(s) URL, in JSON or YAML.
package static

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

	"fastodo/internal/domain"
	"fastodo/internal/errors"
)

// maxDocumentSize caps how much of a remote document is read.
const maxDocumentSize = 4 << 20

// Format is the encoding of a static document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a read-only medium. It is never written back.
type Document struct {
	source string
	format Format
	client *http.Client
}

// Option configures a Document.
type Option func(*Document)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Document) {
		d.client = client
	}
}

// WithTimeout bounds each http(s) fetch.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Document) {
		d.client = &http.Client{Timeout: timeout}
	}
}

// WithFormat overrides the format detected from the source extension.
func WithFormat(format Format) Option {
	return func(d *Document) {
		d.format = format
	}
}

// New creates a medium reading source, a file path or an http(s) URL.
func New(source string, opts ...Option) *Document {
	d := &Document{
		source: source,
		format: DetectFormat(source),
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFormat picks YAML for .yaml and .yml sources and JSON otherwise.
func DetectFormat(source string) Format {
	p := source
	if u, err := url.Parse(source); err == nil && isRemote(u) {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func isRemote(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

// Name returns the source.
func (d *Document) Name() string {
	return d.source
}

// Writable is always false.
func (d *Document) Writable() bool {
	return false
}

// Load fetches the document, validates it against the task list schema and decodes it.
func (d *Document) Load(ctx context.Context) ([]domain.Record, error) {
	data, err := d.fetch(ctx)
	if err != nil {
		return nil, errors.NewStorageError("read "+d.source, err).WithContext("medium", "static")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	records, err := decode(data, d.format)
	if err != nil {
		return nil, errors.NewDecodeError(d.source, err)
	}
	return records, nil
}

// Save always fails: static documents are read-only.
func (d *Document) Save(context.Context, []domain.Record) error {
	return errors.NewReadOnlyError("static document " + d.source)
}

// Close is a no-op.
func (d *Document) Close() error {
	return nil
}

func (d *Document) fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(d.source)
	if err != nil || !isRemote(u) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.ReadFile(d.source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}

// decode validates then converts a document into records.
func decode(data []byte, format Format) ([]domain.Record, error) {
	var doc interface{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var records []domain.Record
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	}
	return records, nil
}
