// Package pipeline wires the core components (C1-C5) into the two
// operations the rest of the program drives: a full build from a clean
// workspace walk, and an in-memory update of a single file's records
// followed by that file's graph delta (graph.RebuildFile). It holds no
// state the components themselves don't already own, beyond the per-file
// records cache a delta needs to see every other file's facts.
package pipeline

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/codegraph-dev/codegraph/internal/enumerate"
	"github.com/codegraph-dev/codegraph/internal/extract/hcl"
	"github.com/codegraph-dev/codegraph/internal/extract/python"
	"github.com/codegraph-dev/codegraph/internal/extract/tsfamily"
	"github.com/codegraph-dev/codegraph/internal/graph"
	"github.com/codegraph-dev/codegraph/internal/grammar"
	"github.com/codegraph-dev/codegraph/internal/ignore"
	"github.com/codegraph-dev/codegraph/internal/logging"
	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/internal/resolve"
	"github.com/codegraph-dev/codegraph/internal/store"
)

var log = logging.For("pipeline")

// Options configures a Pipeline beyond its workspace root, typically sourced
// from an optional project configuration file.
type Options struct {
	// ExtraIgnoreDirs extends the fixed ignore denylist.
	ExtraIgnoreDirs []string
	// Workers bounds how many files FullBuild extracts concurrently. Zero or
	// negative defaults to runtime.NumCPU().
	Workers int
	// IncludeExt, when non-empty, replaces the default tracked-extension set.
	IncludeExt []string
	// ExcludeExt removes extensions from whichever tracked set is otherwise
	// in effect.
	ExcludeExt []string
}

// Pipeline runs the extraction stages for one workspace root and caches
// every file's records so a single-file delta can still see every file's
// facts (barrel classification and re-export chains span files).
type Pipeline struct {
	root      string
	matcher   *ignore.Matcher
	gram      *grammar.Dispatcher
	workers   int
	extFilter enumerate.Filter

	parserPool sync.Pool

	mu      sync.Mutex
	files   []string
	records map[string]*model.FileRecords
	// hashes caches each file's last-extracted content hash, so a write
	// event that leaves the bytes unchanged (editors that touch mtime on
	// save-without-change) skips re-extraction and the graph rebuild.
	hashes map[string][32]byte
}

// New constructs a Pipeline rooted at root, probing optional grammars once.
// opts is optional; its zero value ignores nothing extra, tracks the
// default extension set, and bounds extraction concurrency to NumCPU.
func New(root string, opts ...Options) (*Pipeline, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	matcher, err := ignore.New(root, o.ExtraIgnoreDirs...)
	if err != nil {
		return nil, fmt.Errorf("load ignore rules: %w", err)
	}
	return &Pipeline{
		root:      root,
		matcher:   matcher,
		gram:      grammar.New(),
		workers:   workers,
		extFilter: enumerate.Filter{Include: o.IncludeExt, Exclude: o.ExcludeExt},
		parserPool: sync.Pool{
			New: func() any { return sitter.NewParser() },
		},
		records: make(map[string]*model.FileRecords),
		hashes:  make(map[string][32]byte),
	}, nil
}

// FullBuild re-enumerates the workspace, re-extracts every tracked file, and
// rebuilds the graph from scratch. Extraction of each file is independent
// (its own parse tree, its own record set) so the per-file work runs across
// up to p.workers goroutines; the resulting records/hashes maps are merged
// under a mutex as each file finishes, and the file list itself is built
// once up front and never mutated concurrently, so graph.Build still sees
// the same stable, lexicographically ordered file set it would from a
// sequential build.
func (p *Pipeline) FullBuild(st *store.Store) error {
	files, err := enumerate.Enumerate(p.root, p.matcher, p.extFilter)
	if err != nil {
		return fmt.Errorf("enumerate: %w", err)
	}

	records := make(map[string]*model.FileRecords, len(files))
	hashes := make(map[string][32]byte, len(files))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, f := range files {
		f := f
		g.Go(func() error {
			source, err := os.ReadFile(filepath.Join(p.root, f))
			if err != nil {
				log.Warnw("skipping file", "file", f, "err", err)
				return nil
			}
			rec, err := p.extract(f, source)
			if err != nil {
				log.Warnw("skipping file", "file", f, "err", err)
				return nil
			}
			hash := sha256.Sum256(source)

			mu.Lock()
			hashes[f] = hash
			if rec != nil {
				records[f] = rec
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	p.mu.Lock()
	p.files = files
	p.records = records
	p.hashes = hashes
	p.mu.Unlock()

	r := resolve.New(p.root, files)
	return graph.Build(st, files, records, r)
}

// UpdateFile re-extracts relPath and applies its delta to the graph: clear
// relPath's existing nodes/edges and re-derive them from the refreshed
// records, leaving every other file's nodes, edges, and ids untouched. A
// file that now fails to parse is dropped from the cache rather than
// blocking the rebuild, treating the parse failure as a skippable per-file
// error — its delta still runs, leaving it tracked as a file node with no
// definitions. If the file's content hash is unchanged since it was last
// extracted, the rebuild is skipped entirely — editors routinely fire a
// write event on save without changing any bytes.
func (p *Pipeline) UpdateFile(st *store.Store, relPath string) error {
	source, err := os.ReadFile(filepath.Join(p.root, relPath))
	if err != nil {
		return fmt.Errorf("read %s: %w", relPath, err)
	}
	hash := sha256.Sum256(source)

	p.mu.Lock()
	if prev, ok := p.hashes[relPath]; ok && prev == hash {
		p.mu.Unlock()
		log.Debugw("unchanged, skipping rebuild", "file", relPath)
		return nil
	}
	p.mu.Unlock()

	rec, err := p.extract(relPath, source)

	p.mu.Lock()
	if err != nil {
		log.Warnw("skipping file", "file", relPath, "err", err)
		delete(p.records, relPath)
		delete(p.hashes, relPath)
	} else {
		p.hashes[relPath] = hash
		if rec != nil {
			p.records[relPath] = rec
		}
	}
	p.addFileLocked(relPath)
	files := append([]string{}, p.files...)
	records := p.records
	p.mu.Unlock()

	r := resolve.New(p.root, files)
	return graph.RebuildFile(st, relPath, records, r)
}

// RemoveFile clears relPath's nodes and edges: deleting a file produces an
// empty delta for it, so there is nothing left to re-derive afterward.
func (p *Pipeline) RemoveFile(st *store.Store, relPath string) error {
	if err := st.Transaction(func(tx *sql.Tx) error {
		return store.ClearFile(tx, relPath)
	}); err != nil {
		return fmt.Errorf("clear %s: %w", relPath, err)
	}

	p.mu.Lock()
	delete(p.records, relPath)
	delete(p.hashes, relPath)
	p.removeFileLocked(relPath)
	p.mu.Unlock()

	return nil
}

func (p *Pipeline) addFileLocked(relPath string) {
	for _, f := range p.files {
		if f == relPath {
			return
		}
	}
	p.files = append(p.files, relPath)
	sort.Strings(p.files)
}

func (p *Pipeline) removeFileLocked(relPath string) {
	out := p.files[:0]
	for _, f := range p.files {
		if f != relPath {
			out = append(out, f)
		}
	}
	p.files = out
}

// extract runs C2/C3 over already-read source bytes for relPath.
func (p *Pipeline) extract(relPath string, source []byte) (*model.FileRecords, error) {
	lang := grammar.LanguageFor(filepath.Ext(relPath))
	switch lang {
	case grammar.LangHCL:
		return hcl.New().Extract(source, relPath)

	case grammar.LangPython:
		if !p.gram.Available(lang) {
			return nil, fmt.Errorf("python grammar unavailable")
		}
		root, err := p.parse(lang, source)
		if err != nil {
			return nil, err
		}
		return python.New().Extract(root, source, relPath), nil

	case grammar.LangTS, grammar.LangTSX, grammar.LangJS:
		if !p.gram.Available(lang) {
			return nil, fmt.Errorf("grammar unavailable: %s", lang)
		}
		root, err := p.parse(lang, source)
		if err != nil {
			return nil, err
		}
		return tsfamily.New().Extract(root, source, relPath), nil

	default:
		return nil, nil
	}
}

func (p *Pipeline) parse(lang string, source []byte) (*sitter.Node, error) {
	l, err := p.gram.TreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	parser := p.parserPool.Get().(*sitter.Parser)
	defer p.parserPool.Put(parser)
	parser.SetLanguage(l)

	tree := parser.Parse(nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", lang)
	}
	return tree.RootNode(), nil
}
