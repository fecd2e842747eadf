package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/jcdickinson/uiuadoc/internal/config"
	"github.com/jcdickinson/uiuadoc/internal/docs"
	"github.com/jcdickinson/uiuadoc/internal/frontend"
	"github.com/jcdickinson/uiuadoc/internal/highlight"
	"github.com/jcdickinson/uiuadoc/internal/rpc"
	"github.com/jcdickinson/uiuadoc/internal/search"
	"github.com/jcdickinson/uiuadoc/internal/site"
	"github.com/jcdickinson/uiuadoc/internal/summary"
)

// ErrLibraryNotFound is returned when the library directory has no main file.
var ErrLibraryNotFound = errors.New("library not found")

// ParseError reports the first parse error of a file.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidateDir checks that dir is a library directory holding mainFile.
func ValidateDir(dir, mainFile string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%s: %w", dir, ErrLibraryNotFound)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", dir, ErrLibraryNotFound)
	}
	if _, err := os.Stat(filepath.Join(dir, mainFile)); err != nil {
		return fmt.Errorf("%s has no %s: %w", dir, mainFile, ErrLibraryNotFound)
	}
	return nil
}

// CompileExcludes compiles path patterns. '/' separates path segments, so
// "*" stays inside one directory and "**" crosses them.
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func excluded(path string, excludes []glob.Glob) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	for _, g := range excludes {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Extract parses and extracts every file of program that no exclude pattern
// matches. Files are processed in parallel; the result keeps program order.
func Extract(ctx context.Context, program *frontend.Program, parser frontend.Parser, excludes []glob.Glob) ([]*docs.FileContent, error) {
	extractor := docs.NewExtractor(program)
	results := make([]*docs.FileContent, len(program.Files))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range program.Files {
		if excluded(file.Path, excludes) {
			slog.Debug("skipping excluded file", "file", file.Path)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items, errs := parser.Parse(file.Text, file.Path)
			if len(errs) > 0 {
				return &ParseError{File: file.Path, Err: errs[0]}
			}
			content, err := extractor.ExtractFile(file.Path, items)
			if err != nil {
				return err
			}
			results[i] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := results[:0]
	for _, f := range results {
		if f != nil {
			files = append(files, f)
		}
	}
	return files, nil
}

// Main returns the extracted main file.
func Main(files []*docs.FileContent) (*docs.FileContent, bool) {
	for _, f := range files {
		if f.Main {
			return f, true
		}
	}
	return nil, false
}

// Builder generates the documentation site of one library.
type Builder struct {
	cfg   *config.Config
	index *search.Index
}

// NewBuilder returns a builder for the library cfg was loaded for. A nil
// index skips search indexing.
func NewBuilder(cfg *config.Config, index *search.Index) *Builder {
	return &Builder{cfg: cfg, index: index}
}

// Load validates the library directory and reads its assembly dump.
func (b *Builder) Load() (*frontend.Dump, error) {
	if err := ValidateDir(b.cfg.Dir, b.cfg.Source.MainFile); err != nil {
		return nil, err
	}
	return frontend.LoadDump(b.cfg.Path(b.cfg.Source.Assembly))
}

// Files extracts the documentation of every non-excluded file in the dump.
func (b *Builder) Files(ctx context.Context, dump *frontend.Dump) ([]*docs.FileContent, error) {
	excludes, err := CompileExcludes(b.cfg.Source.Exclude)
	if err != nil {
		return nil, err
	}
	return Extract(ctx, dump.Program(), dump, excludes)
}

// Build writes the site into the configured output directory and indexes
// the extracted items.
func (b *Builder) Build(ctx context.Context) (*rpc.BuildResult, error) {
	start := time.Now()

	dump, err := b.Load()
	if err != nil {
		return nil, err
	}
	files, err := b.Files(ctx, dump)
	if err != nil {
		return nil, err
	}
	main, ok := Main(files)
	if !ok {
		return nil, fmt.Errorf("assembly has no main file %s: %w", b.cfg.Source.MainFile, ErrLibraryNotFound)
	}

	program := dump.Program()
	mainText, _ := program.Source(main.File)
	code := highlight.New(dump, highlight.WithContext(mainText))

	sum, err := summary.Summarize(main, b.cfg.Site.Title, summary.Options{
		DocMarker: b.cfg.Site.DocMarker,
		Code:      code.HTML,
	})
	if err != nil {
		return nil, fmt.Errorf("summarizing %s: %w", main.File, err)
	}

	gen, err := site.New(code)
	if err != nil {
		return nil, err
	}
	out := b.cfg.Path(b.cfg.Site.OutputDir)
	if err := gen.Generate(out, sum); err != nil {
		return nil, fmt.Errorf("generating site: %w", err)
	}

	result := &rpc.BuildResult{
		Library: b.cfg.Site.Title,
		Output:  out,
		Files:   len(files),
	}
	if b.index != nil {
		n, err := b.index.IndexLibrary(b.cfg.Site.Title, b.cfg.Dir, files)
		if err != nil {
			return nil, fmt.Errorf("indexing: %w", err)
		}
		result.Items = n
	}
	result.Duration = time.Since(start).Round(time.Millisecond).String()

	slog.Info("built documentation", "library", result.Library, "output", out, "files", result.Files, "duration", result.Duration)
	return result, nil
}
