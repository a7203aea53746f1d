package source

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// defaultExtensions is the source-like extension allow-list.
var defaultExtensions = map[string]bool{
	".js":     true,
	".jsx":    true,
	".ts":     true,
	".tsx":    true,
	".mjs":    true,
	".cjs":    true,
	".vue":    true,
	".svelte": true,
	".py":     true,
	".rb":     true,
	".php":    true,
	".go":     true,
	".java":   true,
	".html":   true,
	".htm":    true,
	".json":   true,
	".yaml":   true,
	".yml":    true,
	".sql":    true,
}

// defaultIgnoreDirs are directory names excluded from enumeration.
var defaultIgnoreDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".svn":         true,
	".hg":          true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"vendor":       true,
	"coverage":     true,
	".next":        true,
	".nuxt":        true,
	"target":       true,
	"__pycache__":  true,
}

// Service enumerates, reads, and writes project files through afs.
type Service struct {
	fs         afs.Service
	logger     *slog.Logger
	extensions map[string]bool
	ignoreDirs map[string]bool
}

// Option configures a Service.
type Option func(*Service)

// WithFS sets the afs service. Defaults to afs.New().
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithLogger sets the structured logger used for skipped files.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithExtensions replaces the extension allow-list.
func WithExtensions(exts ...string) Option {
	return func(s *Service) {
		s.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			s.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithIgnoreDirs replaces the ignored directory names.
func WithIgnoreDirs(dirs ...string) Option {
	return func(s *Service) {
		s.ignoreDirs = make(map[string]bool, len(dirs))
		for _, dir := range dirs {
			s.ignoreDirs[dir] = true
		}
	}
}

// New creates a Service with the default allow-list and ignore set.
func New(opts ...Option) *Service {
	s := &Service{
		fs:         afs.New(),
		logger:     slog.Default(),
		extensions: defaultExtensions,
		ignoreDirs: defaultIgnoreDirs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List recursively enumerates source-like files under root, returning
// sorted, slash-separated paths relative to root. Duplicate paths
// collapse to a single entry.
func (s *Service) List(ctx context.Context, root string) ([]string, error) {
	seen := make(map[string]bool)
	if err := s.walk(ctx, root, "", seen); err != nil {
		return nil, fmt.Errorf("source: list %s: %w", root, err)
	}
	out := make([]string, 0, len(seen))
	for rel := range seen {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Service) walk(ctx context.Context, root, rel string, seen map[string]bool) error {
	dir := root
	if rel != "" {
		dir = path.Join(root, rel)
	}
	objects, err := s.fs.List(ctx, dir)
	if err != nil {
		return err
	}
	for _, object := range objects {
		name := object.Name()
		if name == "" || name == "." || name == ".." {
			continue
		}
		childRel := name
		if rel != "" {
			childRel = path.Join(rel, name)
		}
		if object.IsDir() {
			// afs includes the listed directory itself.
			if strings.TrimSuffix(url.Path(object.URL()), "/") == strings.TrimSuffix(url.Path(dir), "/") {
				continue
			}
			if s.ignoreDirs[name] {
				continue
			}
			if err := s.walk(ctx, root, childRel, seen); err != nil {
				return err
			}
			continue
		}
		if s.wanted(name) {
			seen[childRel] = true
		}
	}
	return nil
}

// wanted applies the allow-list: known extensions, .env variants, and
// package.json, minus minified bundles.
func (s *Service) wanted(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".min.js") || strings.HasSuffix(lower, ".min.css") || strings.Contains(lower, ".bundle.") {
		return false
	}
	if lower == "package.json" {
		return true
	}
	if strings.HasPrefix(lower, ".env") {
		return true
	}
	return s.extensions[path.Ext(lower)]
}

// ReadText reads a file under root and returns its contents as UTF-8 text.
func (s *Service) ReadText(ctx context.Context, root, rel string) (string, error) {
	data, err := s.fs.DownloadWithURL(ctx, path.Join(root, rel))
	if err != nil {
		return "", fmt.Errorf("source: read %s: %w", rel, err)
	}
	return string(data), nil
}

// WriteText writes content to a file under root, creating or replacing it.
func (s *Service) WriteText(ctx context.Context, root, rel, content string) error {
	if err := s.fs.Upload(ctx, path.Join(root, rel), 0644, strings.NewReader(content)); err != nil {
		return fmt.Errorf("source: write %s: %w", rel, err)
	}
	return nil
}

// Exists reports whether a file exists under root.
func (s *Service) Exists(ctx context.Context, root, rel string) (bool, error) {
	ok, err := s.fs.Exists(ctx, path.Join(root, rel))
	if err != nil {
		return false, fmt.Errorf("source: stat %s: %w", rel, err)
	}
	return ok, nil
}
