// Command satkit runs one or more SAT decision procedures against a DIMACS
// CNF file, or every .cnf file in a directory, reporting a verdict and
// timing per file in the tradition of saturday's single-file CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kr/pretty"

	"github.com/satkit/satkit/cdcl"
	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/dp"
	"github.com/satkit/satkit/dpll"
	"github.com/satkit/satkit/internal/logging"
	"github.com/satkit/satkit/resolution"
	"github.com/satkit/satkit/solver"
)

func main() {
	verbose := countFlag{}
	engine := flag.String("engine", "cdcl", "decision procedure: resolution, dp, dpll, cdcl, or all")
	workers := flag.Int("workers", 1, "worker goroutines for the parallel resolution/dp variants")
	timeout := flag.Duration("timeout", 0, "advisory wall-clock budget per file (0 = none)")
	logFormat := flag.String("log-format", "text", "structured logger encoding: text or json")
	resultsPath := flag.String("results", "", "optional newline-delimited JSON batch result log")
	flag.Var(&verbose, "v", "verbose mode: per-file stats block")
	vv := flag.Bool("vv", false, "escalate the structured logger to debug level")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `satkit: a SAT solver toolkit.

Usage:

  satkit [flags] <input.cnf | directory>

satkit reads one DIMACS CNF problem, or every .cnf file in a directory, and
reports SAT or UNSAT (or UNKNOWN on timeout) for each, using the selected
decision procedure.

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	format := logging.Text
	if *logFormat == "json" {
		format = logging.JSON
	}
	vCount := verbose.count
	if *vv {
		vCount = 2
	}
	logOpts := logging.WithVerbosity(logging.Options{Format: format}, vCount)
	logger := logging.New(logOpts)

	eng, err := resolveEngine(*engine, *workers)
	if err != nil {
		logger.Error("invalid engine selection", "error", err)
		os.Exit(2)
	}

	var resultsOut io.WriteCloser
	if *resultsPath != "" {
		f, err := os.Create(*resultsPath)
		if err != nil {
			logger.Error("opening results log", "path", *resultsPath, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		resultsOut = f
	}

	files, err := collectCNFFiles(flag.Arg(0))
	if err != nil {
		logger.Error("walking input path", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no .cnf files found", "path", flag.Arg(0))
		os.Exit(1)
	}

	r := &runner{
		logger:     logger,
		engine:     eng,
		timeout:    *timeout,
		verbose:    verbose.count > 0,
		resultsOut: resultsOut,
		batchMode:  len(files) > 1,
	}

	exitCode := 0
	for _, path := range files {
		if !r.runFile(path) {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// countFlag implements flag.Value for a flag that may be repeated
// (-v -v) to escalate verbosity.
type countFlag struct {
	count int
	set   bool
}

func (c *countFlag) String() string {
	if c == nil {
		return "0"
	}
	return fmt.Sprintf("%d", c.count)
}

func (c *countFlag) Set(string) error {
	c.count++
	c.set = true
	return nil
}

func (c *countFlag) IsBoolFlag() bool { return true }

func resolveEngine(name string, workers int) (namedEngines, error) {
	switch name {
	case "resolution":
		if workers > 1 {
			return namedEngines{resolution.ParallelAdapter{Workers: workers}}, nil
		}
		return namedEngines{resolution.Adapter{}}, nil
	case "dp":
		if workers > 1 {
			return namedEngines{dp.ParallelAdapter{Workers: workers}}, nil
		}
		return namedEngines{dp.Adapter{}}, nil
	case "dpll":
		return namedEngines{dpll.Adapter{}}, nil
	case "cdcl":
		return namedEngines{cdcl.Adapter{}}, nil
	case "all":
		return namedEngines{
			resolution.Adapter{},
			dp.Adapter{},
			dpll.Adapter{},
			cdcl.Adapter{},
		}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}

type namedEngines []solver.Engine

func collectCNFFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".cnf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// resultRecord is one line of the optional -results batch log.
type resultRecord struct {
	Name    string `json:"name"`
	Engine  string `json:"engine"`
	Verdict string `json:"verdict"`
	ParseMS int64  `json:"parse_ms"`
	SolveMS int64  `json:"solve_ms"`
}

type runner struct {
	logger     hclog.Logger
	engine     namedEngines
	timeout    time.Duration
	verbose    bool
	resultsOut io.Writer
	batchMode  bool
}

// runFile solves one file with every configured engine and reports the
// result. It recovers a panic only when running in batch mode, per the
// error handling design's per-file recovery boundary; a single-file run
// re-panics so the failure is visible immediately.
func (r *runner) runFile(path string) (ok bool) {
	if r.batchMode {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("recovered panic", "file", path, "panic", rec)
				ok = false
			}
		}()
	}
	return r.solveFile(path)
}

func (r *runner) solveFile(path string) bool {
	total := time.Now()

	f, err := os.Open(path)
	if err != nil {
		r.logger.Error("opening input", "file", path, "error", err)
		return false
	}
	defer f.Close()

	parseStart := time.Now()
	formula, err := cnf.ParseDIMACS(f)
	parseElapsed := time.Since(parseStart)
	if err != nil {
		r.logger.Error("parsing DIMACS", "file", path, "error", err)
		return false
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var first solver.Result
	var firstName string
	agree := true

	for i, eng := range r.engine {
		res := eng.Solve(ctx, formula.Clone())
		if i == 0 {
			first = res
			firstName = eng.Name()
		} else if res.Verdict != first.Verdict {
			agree = false
			r.logger.Error("engine disagreement",
				"file", path, firstName, first.Verdict.String(),
				eng.Name(), res.Verdict.String())
		}
		if r.verbose {
			r.logger.Info("engine result", "file", path, "engine", eng.Name(), "stats", pretty.Sprint(res.Stats))
		}
	}

	fmt.Printf("Result: %s\n", first.Verdict)
	if r.verbose {
		fmt.Printf("parse_ms=%d solve_ms=%d total_ms=%d\n",
			parseElapsed.Milliseconds(), first.Stats.SolveTime.Milliseconds(), time.Since(total).Milliseconds())
	}

	if r.resultsOut != nil {
		rec := resultRecord{
			Name:    filepath.Base(path),
			Engine:  firstName,
			Verdict: first.Verdict.String(),
			ParseMS: parseElapsed.Milliseconds(),
			SolveMS: first.Stats.SolveTime.Milliseconds(),
		}
		if b, err := json.Marshal(rec); err == nil {
			fmt.Fprintln(r.resultsOut, string(b))
		}
	}

	return agree
}
