// Command checkedc-infer drives one core run over the JSON-over-stdio
// translation-unit feed (internal/cast/feed.go): read every TranslationUnit
// from stdin, absorb it, link, solve, and print the rendered declaration
// and call-cast outputs plus any diagnostics to stdout/stderr.
//
// This is a minimal driver only (spec.md §1 Non-goals: "CLI option
// parsing/tooling/verification harnesses beyond a minimal driver" is out of
// scope as a feature) — it exists so the core is invocable at all, not as a
// full rewriter front end.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/funvibe/checkedc-infer/internal/cast"
	"github.com/funvibe/checkedc-infer/internal/config"
	"github.com/funvibe/checkedc-infer/pkg/core"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (internal/config.CoreOptions)")
	allTypes := flag.Bool("all_types", false, "enable the ptr-type refinement pass")
	warnRootCause := flag.Bool("warn_root_cause", false, "emit diagnostics naming constraints that forced a pointer to Wild")
	flag.Parse()

	opts, err := loadOptions(*configPath, *allTypes, *warnRootCause)
	if err != nil {
		fmt.Fprintf(os.Stderr, "checkedc-infer: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "checkedc-infer: %v\n", err)
		os.Exit(1)
	}
}

func loadOptions(configPath string, allTypes, warnRootCause bool) (config.CoreOptions, error) {
	opts := config.Default()
	if configPath != "" {
		var err error
		opts, err = config.FromFile(configPath)
		if err != nil {
			return opts, err
		}
	}
	if allTypes {
		opts.AllTypes = true
	}
	if warnRootCause {
		opts.WarnRootCause = true
	}
	return opts, nil
}

func run(opts config.CoreOptions, in io.Reader, out, errOut io.Writer) error {
	c, err := core.New(opts)
	if err != nil {
		return fmt.Errorf("starting core: %w", err)
	}
	defer c.Close()

	dec := cast.NewDecoder(in)
	now := time.Now()
	var absorbed []cast.Decl
	for {
		tu, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("decoding translation unit: %w", err)
		}
		decls := cast.DeclsFromWire(tu.Decls)
		rewritable := cast.BuildRewritableSet(tu)
		if err := c.Absorb(now, decls, tu.File, rewritable); err != nil {
			return fmt.Errorf("absorbing %s: %w", tu.File, err)
		}
		absorbed = append(absorbed, decls...)
	}

	if err := c.Link(); err != nil {
		return fmt.Errorf("linking: %w", err)
	}
	c.Solve(now)

	printOutputs(out, c, absorbed)
	printStats(out, c)
	c.PrintDiagnostics(errOut)
	return nil
}

// printOutputs renders §6's per-declaration output: the solved type string
// (function-return/param text for FunctionDecl, a single type string
// otherwise) plus the "did anything change" flag.
func printOutputs(out io.Writer, c *core.Core, decls []cast.Decl) {
	for _, d := range decls {
		if d.Kind == cast.FunctionDecl {
			fo, ok := c.FuncOutput(d.Name, fileOrEmpty(d))
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%s: %s %s(%s) changed=%v\n", d.Loc, fo.ReturnText, d.Name, fo.ParamsText, fo.Changed)
			continue
		}
		do, ok := c.DeclOutput(d.Loc)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%s: %s %s changed=%v\n", d.Loc, do.TypeText, d.Name, do.Changed)
	}
}

func fileOrEmpty(d cast.Decl) string {
	if d.IsStatic {
		return d.File
	}
	return ""
}

func printStats(out io.Writer, c *core.Core) {
	s := c.Stats()
	fmt.Fprintf(out, "constraints built in %s, bounds flow in %s, solved in %s\n",
		s.ConstraintBuilderTime, s.BoundsTime, s.SolverTime)
}
