package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/driftwatch/sdk/project"
)

// Context file names, in load-preference order.
const (
	FileYAML = ".project-context.yaml"
	FileJSON = ".project-context.json"
)

// Common errors returned by store operations.
var (
	// ErrNotFound is returned when no context file exists at the root.
	ErrNotFound = errors.New("store: project context not found")

	// ErrMalformed is returned when a context file exists but cannot be
	// decoded.
	ErrMalformed = errors.New("store: project context malformed")
)

// Store loads and saves ProjectContext files through afs.
type Store struct {
	fs afs.Service
}

// Option configures a Store.
type Option func(*Store)

// WithFS sets the afs service. Defaults to afs.New().
func WithFS(fs afs.Service) Option {
	return func(s *Store) { s.fs = fs }
}

// New creates a Store.
func New(opts ...Option) *Store {
	s := &Store{fs: afs.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the project context from root, trying the YAML file first
// and the JSON file second. Returns ErrNotFound if neither exists and
// ErrMalformed if a file exists but does not decode.
func (s *Store) Load(ctx context.Context, root string) (*project.ProjectContext, error) {
	for _, name := range []string{FileYAML, FileJSON} {
		url := path.Join(root, name)
		ok, err := s.fs.Exists(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("store: stat %s: %w", name, err)
		}
		if !ok {
			continue
		}
		data, err := s.fs.DownloadWithURL(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", name, err)
		}
		pc, err := decode(name, data)
		if err != nil {
			return nil, err
		}
		return pc, nil
	}
	return nil, ErrNotFound
}

// Save writes the context back to root. The format follows the existing
// context file; when none exists yet, YAML is written.
func (s *Store) Save(ctx context.Context, root string, pc *project.ProjectContext) error {
	name := FileYAML
	if ok, err := s.fs.Exists(ctx, path.Join(root, FileJSON)); err == nil && ok {
		if yamlExists, err := s.fs.Exists(ctx, path.Join(root, FileYAML)); err != nil || !yamlExists {
			name = FileJSON
		}
	}

	data, err := encode(name, pc)
	if err != nil {
		return err
	}
	if err := s.fs.Upload(ctx, path.Join(root, name), 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	return nil
}

func decode(name string, data []byte) (*project.ProjectContext, error) {
	var pc project.ProjectContext
	if strings.HasSuffix(name, ".json") {
		if err := json.Unmarshal(data, &pc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
		}
		return &pc, nil
	}
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}
	return &pc, nil
}

func encode(name string, pc *project.ProjectContext) ([]byte, error) {
	if strings.HasSuffix(name, ".json") {
		data, err := json.MarshalIndent(pc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("store: encode json: %w", err)
		}
		return data, nil
	}
	data, err := yaml.Marshal(pc)
	if err != nil {
		return nil, fmt.Errorf("store: encode yaml: %w", err)
	}
	return data, nil
}
