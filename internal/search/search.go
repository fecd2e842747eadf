package search

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jcdickinson/uiuadoc/internal/cas"
	"github.com/jcdickinson/uiuadoc/internal/db"
	"github.com/jcdickinson/uiuadoc/internal/rpc"
)

// ErrNotFound is returned by Get when the library or item is not indexed.
var ErrNotFound = errors.New("not found")

type Searcher struct {
	db    *db.DB
	store *cas.Store
}

func NewSearcher(database *db.DB, store *cas.Store) *Searcher {
	return &Searcher{db: database, store: store}
}

// Search looks up indexed items by name, path and summary.
func (s *Searcher) Search(req rpc.SearchRequest) ([]rpc.DocResult, error) {
	slog.Info("search", "query", req.Query, "limit", req.Limit, "libraries", req.Libraries)

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	hits, err := s.db.SearchItems(query, req.Libraries, req.Limit)
	if err != nil {
		return nil, err
	}
	slog.Debug("search done", "results", len(hits))

	results := make([]rpc.DocResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, rpc.DocResult{
			URI:       URI(h.Library, h.Path),
			Library:   h.Library,
			Path:      h.Path,
			Kind:      h.Kind,
			Signature: h.Signature,
			Score:     h.Score,
			Snippet:   s.snippet(&h.Item),
		})
	}
	return results, nil
}

// Get returns the markdown document of the item at path in library.
func (s *Searcher) Get(library, path string) (string, error) {
	lib, err := s.db.GetLibrary(library)
	if err != nil {
		return "", fmt.Errorf("looking up library %s: %w", library, err)
	}
	if lib == nil {
		return "", fmt.Errorf("library %s: %w", library, ErrNotFound)
	}
	if err := s.db.TouchLibrary(lib.ID); err != nil {
		slog.Warn("failed to touch library", "library", library, "error", err)
	}

	item, err := s.db.GetItemByPath(lib.ID, path)
	if err != nil {
		return "", fmt.Errorf("looking up %s: %w", path, err)
	}
	if item == nil || item.ContentHash == "" {
		return "", fmt.Errorf("item %s in %s: %w", path, library, ErrNotFound)
	}
	return s.store.Get(item.ContentHash)
}

func (s *Searcher) snippet(item *db.Item) string {
	if item.Summary != "" {
		return truncate(item.Summary, 200)
	}
	if item.ContentHash == "" {
		return ""
	}
	doc, err := s.store.Get(item.ContentHash)
	if err != nil {
		return ""
	}
	return truncate(stripFrontMatter(doc), 200)
}

func stripFrontMatter(doc string) string {
	if !strings.HasPrefix(doc, "---\n") {
		return doc
	}
	if _, body, ok := strings.Cut(doc[4:], "\n---\n"); ok {
		return strings.TrimSpace(body)
	}
	return doc
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
