// Package elasticsearch implements lawharvest.RecordIndex on Elasticsearch.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/fwojciec/lawharvest"
	"go.uber.org/zap"
)

var _ lawharvest.RecordIndex = (*Index)(nil)

// DefaultIndexName is the index harvested records are written to.
const DefaultIndexName = "kenya_law"

// Mapping pins the fields whose type must not be guessed from the first
// record. Unparsed dates and years are kept as raw text in the records,
// so those fields ignore malformed values instead of rejecting the record.
var Mapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"document_type":  map[string]any{"type": "keyword"},
			"source_url":     map[string]any{"type": "keyword"},
			"case_name":      map[string]any{"type": "text"},
			"act_title":      map[string]any{"type": "text"},
			"citation":       map[string]any{"type": "keyword"},
			"court":          map[string]any{"type": "keyword"},
			"judges":         map[string]any{"type": "keyword"},
			"legal_category": map[string]any{"type": "keyword"},
			"full_text":      map[string]any{"type": "text"},
			"judgment_date":  map[string]any{"type": "date", "ignore_malformed": true},
			"year_enacted":   map[string]any{"type": "integer", "ignore_malformed": true},
			"scraped_at":     map[string]any{"type": "date"},
		},
	},
}

// Config holds the connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Index    string
}

// Address returns the base URL of the cluster.
func (c Config) Address() string {
	if strings.HasPrefix(c.Host, "http://") || strings.HasPrefix(c.Host, "https://") {
		return fmt.Sprintf("%s:%d", c.Host, c.Port)
	}
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// Option configures an Index.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	logger    *zap.Logger
}

// WithTransport sets the HTTP transport of the client.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Index stores records in one Elasticsearch index.
type Index struct {
	client *es.Client
	name   string
	logger *zap.Logger
}

// Open connects to the cluster and verifies it answers.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Index, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	name := cfg.Index
	if name == "" {
		name = DefaultIndexName
	}

	esCfg := es.Config{
		Addresses: []string{cfg.Address()},
		Transport: o.transport,
	}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	client, err := es.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "ping elasticsearch at %s: %v", cfg.Address(), err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "ping elasticsearch: %s", res.Status())
	}

	o.logger.Info("connected to elasticsearch", zap.String("address", cfg.Address()), zap.String("index", name))
	return &Index{client: client, name: name, logger: o.logger}, nil
}

// Name returns the index name.
func (i *Index) Name() string {
	return i.name
}

// EnsureIndex creates the index with Mapping unless it exists.
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.name}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index existence: %w", err)
	}
	res.Body.Close()
	switch {
	case res.StatusCode == http.StatusNotFound:
	case res.IsError():
		return fmt.Errorf("check index existence: %s", res.Status())
	default:
		return nil
	}

	body, err := json.Marshal(Mapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	res, err = i.client.Indices.Create(i.name,
		i.client.Indices.Create.WithBody(bytes.NewReader(body)),
		i.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index: %s", responseError(res.Body))
	}

	i.logger.Info("created index", zap.String("index", i.name))
	return nil
}

// IndexRecord stores rec under its DocumentID.
func (i *Index) IndexRecord(ctx context.Context, docType lawharvest.DocumentType, rec lawharvest.Identifiable) error {
	id, err := lawharvest.DocumentID(rec)
	if err != nil {
		return err
	}
	body, err := lawharvest.IndexBody(docType, rec)
	if err != nil {
		return err
	}

	res, err := i.client.Index(i.name, bytes.NewReader(body),
		i.client.Index.WithDocumentID(id),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index document %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index document %s: %s", id, responseError(res.Body))
	}

	i.logger.Debug("indexed document", zap.String("id", id), zap.String("document_type", string(docType)))
	return nil
}

// DeleteIndex removes the index. A missing index is not an error.
func (i *Index) DeleteIndex(ctx context.Context) error {
	res, err := i.client.Indices.Delete([]string{i.name}, i.client.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("delete index: %s", responseError(res.Body))
	}

	i.logger.Info("deleted index", zap.String("index", i.name))
	return nil
}

func responseError(body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, 4096))
	return strings.TrimSpace(string(b))
}
