package source

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// File is one enumerated file with its contents.
type File struct {
	// Rel is the slash-separated path relative to the scanned root.
	Rel string

	// Content is the file's UTF-8 text.
	Content string
}

// defaultConcurrency bounds parallel file reads.
const defaultConcurrency = 8

// ReadTree enumerates and reads every source-like file under root,
// reading up to concurrency files in parallel (<= 0 selects the
// default). Files that cannot be read are logged at warn level and
// skipped; a scan never aborts because of a single bad file.
//
// The returned slice is ordered by relative path, so callers observe a
// deterministic sequence regardless of read interleaving.
func (s *Service) ReadTree(ctx context.Context, root string, concurrency int) ([]File, error) {
	rels, err := s.List(ctx, root)
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	contents := make([]*string, len(rels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, rel := range rels {
		g.Go(func() error {
			text, err := s.ReadText(gctx, root, rel)
			if err != nil {
				s.logger.Warn("skipping unreadable file", "file", rel, "error", err)
				return nil
			}
			contents[i] = &text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make([]File, 0, len(rels))
	for i, rel := range rels {
		if contents[i] == nil {
			continue
		}
		files = append(files, File{Rel: rel, Content: *contents[i]})
	}
	return files, nil
}
