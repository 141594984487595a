package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// SourceKind distinguishes where a document lives.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

// Source identifies an OpenAPI document.
type Source struct {
	Kind     SourceKind
	Location string
}

// SourceFromFile points at a path on disk.
func SourceFromFile(path string) Source {
	return Source{Kind: SourceKindFile, Location: filepath.Clean(path)}
}

// SourceFromFS points at a path inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return Source{Kind: SourceKindFS, Location: name}
}

// Loader reads and validates OpenAPI documents.
type Loader struct {
	fsys     fs.FS
	validate bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem resolves SourceKindFS sources against fsys.
func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fsys = fsys
	}
}

// WithValidation toggles document validation (on by default).
func WithValidation(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.validate = enabled
	}
}

// NewLoader constructs a Loader.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load reads src and parses it with kin-openapi.
func (l *Loader) Load(ctx context.Context, src Source) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(src.Location) == "" {
		return nil, errors.New("openapi: source location is required")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location)
	case SourceKindFS:
		if l.fsys == nil {
			return nil, errors.New("openapi: fs source without a filesystem")
		}
		data, err = fs.ReadFile(l.fsys, src.Location)
	default:
		return nil, fmt.Errorf("openapi: unsupported source kind %q", src.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", src.Location, err)
	}
	return l.Parse(ctx, data)
}

// Parse loads a document from raw JSON or YAML.
func (l *Loader) Parse(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if l.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return doc, nil
}
