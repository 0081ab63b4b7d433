// Command llmcc compiles a source tree into a dependency graph and
// emits it as DOT: a config file (.llmcc.kdl or .llmcc.toml) plus flag
// overrides select what gets compiled and at what depth; the compiler
// pipeline itself lives in internal/compiler.
//
// A single urfave/cli App, a loadConfigWithOverrides helper applying
// flags on top of a loaded config file, hidden profiling flags for
// local perf work.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"sort"

	_ "github.com/allenanswerzq/llmcc/frontend/treesitter"
	"github.com/allenanswerzq/llmcc/internal/compiler"
	"github.com/allenanswerzq/llmcc/internal/config"
	"github.com/allenanswerzq/llmcc/internal/diag"
	"github.com/allenanswerzq/llmcc/internal/graphemit"
	"github.com/allenanswerzq/llmcc/internal/langregistry"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	root := c.String("root")

	if root != "" && configPath == "" {
		for _, name := range []string{".llmcc.kdl", ".llmcc.toml"} {
			if _, err := os.Stat(filepath.Join(root, name)); err == nil {
				configPath = filepath.Join(root, name)
				break
			}
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else if root != "" {
		cfg, err = config.Load(root)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if root != "" {
		abs, absErr := filepath.Abs(root)
		if absErr != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", root, absErr)
		}
		cfg.ProjectRoot = abs
	}
	if lang := c.String("lang"); lang != "" {
		cfg.Lang = lang
	}
	if depth := c.Int("depth"); c.IsSet("depth") {
		cfg.Depth = depth
	}
	if topK := c.Int("pagerank-top-k"); c.IsSet("pagerank-top-k") {
		cfg.PageRankTopK = topK
	}
	if c.IsSet("cluster-by-crate") {
		cfg.ClusterByCrate = c.Bool("cluster-by-crate")
	}
	if c.IsSet("short-labels") {
		cfg.ShortLabels = c.Bool("short-labels")
	}
	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}

	return cfg, nil
}

func run(c *cli.Context) error {
	if mem := c.String("profile-memory"); mem != "" {
		f, err := os.Create(mem)
		if err != nil {
			return fmt.Errorf("create memory profile: %w", err)
		}
		defer func() {
			pprof.WriteHeapProfile(f)
			f.Close()
		}()
	}
	if cpuPath := c.String("profile-cpu"); cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		defer f.Close()
	}

	if c.Bool("debug") {
		path, err := diag.InitLogFile()
		if err == nil {
			diag.EnableDebug = "true"
			fmt.Fprintf(os.Stderr, "diagnostics: %s\n", path)
			defer diag.Close()
		}
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	result, err := compiler.Run(cfg)
	if err != nil {
		return err
	}
	for _, compileErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", compileErr)
	}

	if !cfg.Graph {
		return nil
	}

	p := graphemit.Project(result.Graph, result.Interner, graphemit.Depth(cfg.Depth))
	p = graphemit.Prune(p, cfg.PageRankTopK)

	out := graphemit.RenderDOT(p, graphemit.Options{
		ClusterByCrate: cfg.ClusterByCrate,
		ShortLabels:    cfg.ShortLabels,
	})
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}

func listLanguages(*cli.Context) error {
	tags := langregistry.Tags()
	sort.Strings(tags)
	for _, t := range tags {
		fmt.Println(t)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:                   "llmcc",
		Usage:                  "compile a source tree into a queryable dependency graph",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path (.llmcc.kdl or .llmcc.toml)",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "project root directory to compile (overrides config)",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "force every matched file to this language tag",
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "graph emission depth: 0=project 1=crate 2=module 3=file+symbol",
			},
			&cli.IntFlag{
				Name:  "pagerank-top-k",
				Usage: "prune emitted nodes to the top-K by PageRank score (0 disables)",
			},
			&cli.BoolFlag{
				Name:  "cluster-by-crate",
				Usage: "group module nodes into a DOT subgraph per crate",
			},
			&cli.BoolFlag{
				Name:  "short-labels",
				Usage: "emit only the last path component in node labels",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "include files matching glob patterns (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "exclude files matching glob patterns (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "write per-stage diagnostics to a temp log file",
			},
			&cli.StringFlag{
				Name:   "profile-memory",
				Usage:  "write a heap profile to this path",
				Hidden: true,
			},
			&cli.StringFlag{
				Name:   "profile-cpu",
				Usage:  "write a CPU profile to this path",
				Hidden: true,
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:   "languages",
				Usage:  "list registered language tags",
				Action: listLanguages,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "llmcc:", err)
		os.Exit(1)
	}
}
