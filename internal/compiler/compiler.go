// Package compiler orchestrates the whole pipeline: discover files,
// parse each into HIR, bind symbols across every unit, build the
// coarser block graph, connect cross-block references, then hand the
// result to internal/graphemit. Each step is a barrier —
// every unit finishes one stage before any unit starts the next — so
// cross-file binding and cross-unit connect always see a complete
// picture: parse -> build -> link -> ready, with no live incremental
// index to coordinate against.
package compiler

import (
	"context"
	"os"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/allenanswerzq/llmcc/internal/arena"
	"github.com/allenanswerzq/llmcc/internal/bind"
	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/cerr"
	"github.com/allenanswerzq/llmcc/internal/config"
	"github.com/allenanswerzq/llmcc/internal/connect"
	"github.com/allenanswerzq/llmcc/internal/diag"
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/interner"
	"github.com/allenanswerzq/llmcc/internal/sourceset"
	"github.com/allenanswerzq/llmcc/internal/symtab"
)

// Result is everything downstream consumers (internal/graphemit, tests)
// need from a finished compile.
type Result struct {
	Graph    *block.Graph
	Table    *symtab.Table
	Interner *interner.Interner
	Errors   []error
}

// Context owns the resources shared across a single compile run: the
// interner, symbol table, block graph, and the bump-allocator herd that
// backs every unit's source buffer for the lifetime of that unit's
// parse/bind/block-build work.
type Context struct {
	cfg   *config.Config
	herd  *arena.Herd
	in    *interner.Interner
	table *symtab.Table
	graph *block.Graph
}

// NewContext creates a compile Context for cfg.
func NewContext(cfg *config.Config) *Context {
	return &Context{
		cfg:   cfg,
		herd:  arena.NewHerd(arena.DefaultChunkSize),
		in:    interner.New(),
		table: symtab.NewTable(),
		graph: block.NewGraph(),
	}
}

// unit carries one compile unit's state across every pipeline stage.
type unit struct {
	file   sourceset.File
	src    []byte
	worker *arena.Worker
	hirU   *hir.Unit
	bindU  *bind.Unit
	module block.Id
	nodeMp *block.NodeMap
}

// Run executes the full pipeline over every file cfg.Include selects
// under cfg.ProjectRoot and returns the resulting block graph.
func Run(cfg *config.Config) (*Result, error) {
	return RunContext(context.Background(), cfg)
}

// RunContext is Run with a cancellation signal. Workers check ctx
// between units; on cancellation, in-flight work drains, no partial
// result is returned, and ctx.Err() is surfaced.
func RunContext(ctx context.Context, cfg *config.Config) (*Result, error) {
	files, err := sourceset.Discover(cfg)
	if err != nil {
		return nil, err
	}

	c := NewContext(cfg)
	return c.compile(ctx, files)
}

func (c *Context) compile(ctx context.Context, files []sourceset.File) (*Result, error) {
	units := make([]*unit, len(files))
	for i, f := range files {
		units[i] = &unit{file: f}
	}
	defer func() {
		for _, u := range units {
			if u.worker != nil {
				u.worker.Close()
			}
		}
	}()

	start := time.Now()
	parseErrs := c.parseStage(ctx, units)
	diag.Stage("parse", time.Since(start))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	c.bindStage(units)
	diag.Stage("bind", time.Since(start))

	start = time.Now()
	c.blockStage(units)
	diag.Stage("block", time.Since(start))

	start = time.Now()
	c.connectStage(units)
	diag.Stage("connect", time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Graph:    c.graph,
		Table:    c.table,
		Interner: c.in,
		Errors:   parseErrs,
	}, nil
}

// parseStage reads and parses every unit's source in parallel, bounded
// to NumCPU concurrent workers, the same worker-limited errgroup
// fan-out the corpus uses for its own per-file passes. A panic inside
// one worker is recovered into an InvariantError and leaves that unit
// empty, so a bug triggered by one file cannot take down the compile.
func (c *Context) parseStage(ctx context.Context, units []*unit) []error {
	limit := runtime.NumCPU()
	if limit > len(units) {
		limit = len(units)
	}
	if limit < 1 {
		limit = 1
	}

	errs := make([]error, len(units))
	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			defer func() {
				if r := recover(); r != nil {
					u.hirU = nil
					errs[i] = cerr.NewInvariantError("parse "+u.file.Rel, r)
				}
			}()
			errs[i] = c.parseOne(u)
			return nil
		})
	}
	_ = g.Wait()

	return filterErrors(errs)
}

func (c *Context) parseOne(u *unit) error {
	raw, err := readFile(u.file.Path)
	if err != nil {
		return cerr.NewResourceError("read "+u.file.Path, err)
	}

	w := arena.NewWorker(c.herd)
	buf := w.Alloc(len(raw))
	copy(buf, raw)
	u.worker = w
	u.src = buf

	tree, err := u.file.Lang.Parse(u.src)
	if err != nil || tree == nil {
		diag.Log("parse", "failed for %s: %v", u.file.Rel, err)
		u.hirU = hir.NewUnit()
		return cerr.NewParseError(u.file.Rel, u.file.Lang.Tag(), err)
	}
	defer tree.Close()

	u.hirU = hir.Build(tree, u.file.Lang, c.in, u.src)
	return nil
}

// bindStage runs the multi-phase binder across every unit that has an
// HIR (a unit whose parse failed carries an empty one) as a single barrier: binding reads every unit's HIR, so
// it cannot start until every unit's parse stage has finished.
func (c *Context) bindStage(units []*unit) {
	var bindUnits []*bind.Unit
	for _, u := range units {
		if u.hirU == nil {
			continue
		}
		u.bindU = &bind.Unit{Path: u.file.Rel, Lang: u.file.Lang, HIR: u.hirU, Src: u.src}
		bindUnits = append(bindUnits, u.bindU)
	}

	binder := bind.NewBinder(c.in, c.table, bindUnits)
	binder.Bind()
}

// blockStage builds one Module subtree per successfully bound unit.
func (c *Context) blockStage(units []*unit) {
	// bound is indexed identically to bind.Unit.Index (both walk units
	// in source order, skipping the same unparsed/unbound entries), so
	// a symbol's DefinedUnit can address it directly rather than
	// scanning every unit for whichever one happens to hold a matching
	// (but possibly unrelated) NodeId.
	var bound []*unit
	for _, u := range units {
		if u.bindU == nil {
			continue
		}
		builder := block.NewBuilder(c.graph, c.table, len(bound))
		u.module = builder.BuildUnit(u.hirU, u.file.Lang, u.src, u.file.Rel)
		u.nodeMp = builder.Map
		bound = append(bound, u)
	}

	// Now that every definition has a block, stamp each symbol's
	// BlockID: the connect pass needs this to turn a resolved reference
	// into an edge to the block it was defined in.
	for id := 1; id <= c.table.Len(); id++ {
		sym := c.table.Get(hir.SymbolId(id))
		if sym == nil || !sym.HasDefinedAt {
			continue
		}
		if sym.DefinedUnit < 0 || sym.DefinedUnit >= len(bound) {
			continue
		}
		u := bound[sym.DefinedUnit]
		if u.nodeMp == nil {
			continue
		}
		if bid, ok := u.nodeMp.BlockOf[sym.DefinedAt]; ok {
			sym.BlockID, sym.HasBlockID = bid, true
		}
	}
}

// connectStage runs the single-pass connector over the now-complete
// block graph.
func (c *Context) connectStage(units []*unit) {
	var connectUnits []connect.Unit
	for _, u := range units {
		if u.bindU == nil {
			continue
		}
		connectUnits = append(connectUnits, connect.Unit{Path: u.file.Rel, HIR: u.hirU, Lang: u.file.Lang, Map: u.nodeMp})
	}

	connect.NewConnector(c.graph, c.table, connectUnits).Connect()
}

func filterErrors(errs []error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Error() < out[j].Error() })
	return out
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
