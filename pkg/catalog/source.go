package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/httputil"
)

// DefaultResource is the built-in catalogue. /presets.json serves it unless
// another catalogue is configured.
//
//go:embed presets.json
var DefaultResource []byte

// Source loads a catalogue document.
type Source interface {
	// Load fetches and decodes the document.
	Load(ctx context.Context) (*Document, error)
	// Name describes the source for logs.
	Name() string
}

// Options configures [NewSource].
type Options struct {
	// Location is a file path, an http(s) URL, a mongodb URI, or empty for
	// the built-in resource.
	Location string

	// MongoDatabase and MongoCollection select the collection for mongodb
	// locations.
	MongoDatabase   string
	MongoCollection string

	// HTTPClient is used for URL locations (nil for a default client).
	HTTPClient *http.Client
}

// NewSource picks a source implementation from the location's form.
func NewSource(opts Options) Source {
	loc := strings.TrimSpace(opts.Location)
	switch {
	case loc == "" || loc == "builtin":
		return EmbeddedSource{}
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return &HTTPSource{URL: loc, Client: opts.HTTPClient}
	case strings.HasPrefix(loc, "mongodb://"), strings.HasPrefix(loc, "mongodb+srv://"):
		return &MongoSource{URI: loc, Database: opts.MongoDatabase, Collection: opts.MongoCollection}
	default:
		return &FileSource{Path: loc}
	}
}

// =============================================================================
// Decoding
// =============================================================================

// DecodeDocument parses a catalogue in the given format ("json", "toml",
// "yaml"). Documents without room entries are rejected.
func DecodeDocument(data []byte, format string) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case "json", "":
		err = json.Unmarshal(data, &doc)
	case "toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
	case "yaml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported catalogue format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s catalogue", format)
	}
	if len(doc.Rooms) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "catalogue has no room entries")
	}
	return &doc, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// =============================================================================
// Sources
// =============================================================================

// EmbeddedSource serves [DefaultResource].
type EmbeddedSource struct{}

// Load decodes the embedded resource.
func (EmbeddedSource) Load(context.Context) (*Document, error) {
	return DecodeDocument(DefaultResource, "json")
}

// Name returns "builtin".
func (EmbeddedSource) Name() string { return "builtin" }

// FileSource reads a local catalogue file; the extension selects the format.
type FileSource struct {
	Path string
}

// Load reads and decodes the file.
func (s *FileSource) Load(context.Context) (*Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read catalogue %s", s.Path)
	}
	return DecodeDocument(data, formatFromPath(s.Path))
}

// Name returns the file path.
func (s *FileSource) Name() string { return s.Path }

// HTTPSource fetches a JSON catalogue over HTTP with retries.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Load fetches and decodes the resource.
func (s *HTTPSource) Load(ctx context.Context) (*Document, error) {
	if err := errors.ValidateURL(s.URL); err != nil {
		return nil, err
	}
	data, err := httputil.Get(ctx, s.Client, s.URL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch catalogue %s", s.URL)
	}
	return DecodeDocument(data, "json")
}

// Name returns the URL.
func (s *HTTPSource) Name() string { return s.URL }

// StaticSource returns a fixed document, or Err when set.
type StaticSource struct {
	Doc *Document
	Err error
}

// Load returns the fixed document.
func (s StaticSource) Load(context.Context) (*Document, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Doc == nil {
		return nil, fmt.Errorf("static source has no document")
	}
	return s.Doc, nil
}

// Name returns "static".
func (StaticSource) Name() string { return "static" }
