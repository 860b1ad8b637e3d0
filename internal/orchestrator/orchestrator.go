package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/antipattern/smells"
	"github.com/viant/debtmap/internal/behavioral"
	"github.com/viant/debtmap/internal/cache"
	"github.com/viant/debtmap/internal/config"
	"github.com/viant/debtmap/internal/debt"
	"github.com/viant/debtmap/internal/depgraph"
	"github.com/viant/debtmap/internal/logging"
	"github.com/viant/debtmap/internal/scoring"
	"github.com/viant/debtmap/internal/suppression"
	"github.com/viant/debtmap/report"
)

const highComplexityThreshold = 10

// Orchestrator runs §4.10's per-file parallel pass and §4.10/§5's
// aggregation into the three report shapes.
type Orchestrator struct {
	fs         afs.Service
	frontends  []FrontEnd
	cfg        config.Config
	cache      *cache.Cache
	logger     *logging.Logger
	severity   *scoring.SeverityAdjuster
	correlator *scoring.PatternCorrelator
	processed  atomic.Int64
}

// New builds an Orchestrator. cache may be nil to disable caching.
func New(cfg config.Config, frontends []FrontEnd, c *cache.Cache) *Orchestrator {
	return &Orchestrator{
		fs:         afs.New(),
		frontends:  frontends,
		cfg:        cfg,
		cache:      c,
		logger:     logging.New("orchestrator"),
		severity:   scoring.NewSeverityAdjuster(),
		correlator: scoring.NewPatternCorrelator(),
	}
}

// Processed returns the number of files analyzed so far, safe to poll
// concurrently with a running AnalyzeDir (§4.10's atomic progress counter).
func (o *Orchestrator) Processed() int64 {
	return o.processed.Load()
}

func (o *Orchestrator) frontEndFor(path string) FrontEnd {
	for _, fe := range o.frontends {
		if fe.Matches(path) {
			return fe
		}
	}
	return nil
}

// discover walks root via afs, following the teacher's own visitor-based
// analyzer/package.go:analyzePackages idiom, collecting every file path a
// registered FrontEnd claims.
func (o *Orchestrator) discover(ctx context.Context, root string) ([]string, error) {
	var paths []string
	visitor := storage.OnVisit(func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		p := url.Join(baseURL, parent, info.Name())
		if o.frontEndFor(p) != nil {
			paths = append(paths, p)
		}
		return true, nil
	})
	if err := o.fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	if o.cfg.MaxFiles > 0 && len(paths) > o.cfg.MaxFiles {
		paths = paths[:o.cfg.MaxFiles]
	}
	return paths, nil
}

// fileOutcome is one file's contribution to the aggregate report.
type fileOutcome struct {
	path    string
	metrics []report.FunctionMetric
	items   []debt.Item
	module  string
	imports []string
}

// cachedFile is the yaml-serializable shape persisted to the cache, keyed by
// content hash, so unchanged files skip re-analysis entirely.
type cachedFile struct {
	Metrics []report.FunctionMetric `yaml:"metrics"`
	Items   []debt.Item             `yaml:"items"`
	Module  string                  `yaml:"module"`
	Imports []string                `yaml:"imports"`
}

// AnalyzeDir runs the full §4.10 pipeline over every file under root that a
// registered FrontEnd recognizes, and returns the aggregated report bundle.
func (o *Orchestrator) AnalyzeDir(ctx context.Context, root string) (report.Bundle, error) {
	paths, err := o.discover(ctx, root)
	if err != nil {
		return report.Bundle{}, err
	}

	var (
		mu       sync.Mutex
		outcomes []fileOutcome
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit())

	for _, p := range paths {
		path := p
		g.Go(func() error {
			outcome, ok := o.analyzeFileWithTimeout(gctx, path)
			o.processed.Add(1)
			if !ok {
				return nil // timeout or file-level error: absent result, run continues (§4.10)
			}
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.Bundle{}, err
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].path < outcomes[j].path })
	return o.aggregate(outcomes), nil
}

// workerLimit bounds fan-out concurrency to the host's available
// parallelism, matching §5's work-stealing-pool framing without pulling in a
// dedicated pool library the pack doesn't otherwise use.
func workerLimit() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 4
}

// analyzeFileWithTimeout runs analyzeFile on its own goroutine and races it
// against the configured per-file timeout. On timeout the goroutine is left
// running to completion (its result, sent on a buffered channel, is simply
// never read) — §4.10's "abandon, don't kill" cancellation semantics.
func (o *Orchestrator) analyzeFileWithTimeout(ctx context.Context, path string) (fileOutcome, bool) {
	timeout := o.cfg.EffectiveTimeout()
	resultCh := make(chan fileOutcome, 1)
	errCh := make(chan error, 1)

	go func() {
		outcome, err := o.analyzeFile(ctx, path)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- outcome
	}()

	if timeout <= 0 {
		select {
		case outcome := <-resultCh:
			return outcome, true
		case err := <-errCh:
			o.logger.Warnf("file %s: %v", path, err)
			return fileOutcome{}, false
		}
	}

	select {
	case outcome := <-resultCh:
		return outcome, true
	case err := <-errCh:
		o.logger.Warnf("file %s: %v", path, err)
		return fileOutcome{}, false
	case <-time.After(timeout):
		if !o.cfg.Quiet {
			o.logger.Warnf("file %s: timed out after %s, abandoning", path, timeout)
		}
		return fileOutcome{}, false
	}
}

func (o *Orchestrator) analyzeFile(ctx context.Context, path string) (fileOutcome, error) {
	fe := o.frontEndFor(path)
	if fe == nil {
		return fileOutcome{}, fmt.Errorf("no front end registered for %s", path)
	}
	content, err := o.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return fileOutcome{}, fmt.Errorf("read %s: %w", path, err)
	}

	if o.cache != nil {
		if cached, ok, err := o.lookupCache(content); err == nil && ok {
			return fileOutcome{
				path:    path,
				metrics: cached.Metrics,
				items:   cached.Items,
				module:  cached.Module,
				imports: cached.Imports,
			}, nil
		}
	}

	unit, err := fe.Parse(path, content)
	if err != nil {
		return fileOutcome{}, fmt.Errorf("parse %s: %w", path, err)
	}

	lang := languageFor(path)
	suppCtx := suppression.Parse(string(content), lang, path)

	var metrics []report.FunctionMetric
	var items []debt.Item
	for _, fn := range unit.Functions {
		res := analyzeFunction(fn, o.severity, o.correlator, o.cfg.ContextAware)
		metrics = append(metrics, res.metric)
		for _, it := range res.items {
			if suppCtx.IsSuppressed(it.Line, it.Kind) {
				continue
			}
			items = append(items, it)
		}
	}
	fileItems := append(smells.DetectLargeModule(path, totalLines(unit.Functions)), godObjectItems(unit.Functions)...)
	for _, it := range fileItems {
		if !suppCtx.IsSuppressed(it.Line, it.Kind) {
			items = append(items, it)
		}
	}

	outcome := fileOutcome{path: path, metrics: metrics, items: items, module: unit.Module, imports: unit.Imports}

	if o.cache != nil {
		o.storeCache(content, cachedFile{Metrics: metrics, Items: items, Module: unit.Module, Imports: unit.Imports})
	}
	return outcome, nil
}

func (o *Orchestrator) lookupCache(content []byte) (cachedFile, bool, error) {
	key, err := cache.HashKey(content)
	if err != nil {
		return cachedFile{}, false, err
	}
	raw, found, err := o.cache.Get(key)
	if err != nil || !found {
		return cachedFile{}, false, err
	}
	var cf cachedFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return cachedFile{}, false, nil
	}
	return cf, true, nil
}

func (o *Orchestrator) storeCache(content []byte, cf cachedFile) {
	key, err := cache.HashKey(content)
	if err != nil {
		return
	}
	raw, err := yaml.Marshal(cf)
	if err != nil {
		return
	}
	_ = o.cache.Set(key, raw)
	_, _ = o.cache.MaybePrune()
}

func totalLines(fns []antipattern.FunctionInfo) int {
	total := 0
	for _, fn := range fns {
		total += fn.Length
	}
	return total
}

// godObjectItems groups a file's functions by receiver type and, for any
// type crossing smells.DetectGodObject's threshold, both raises the flag and
// runs the §4.8 behavioral-decomposition pass to back it with concrete split
// recommendations.
func godObjectItems(fns []antipattern.FunctionInfo) []debt.Item {
	byReceiver := map[string][]antipattern.FunctionInfo{}
	for _, fn := range fns {
		if fn.Receiver == "" {
			continue
		}
		byReceiver[fn.Receiver] = append(byReceiver[fn.Receiver], fn)
	}

	var receivers []string
	for r := range byReceiver {
		receivers = append(receivers, r)
	}
	sort.Strings(receivers)

	var items []debt.Item
	for _, receiver := range receivers {
		methods := byReceiver[receiver]
		file := methods[0].File
		line := methods[0].Line
		items = append(items, smells.DetectGodObject(receiver, file, line, len(methods))...)

		var behavioralMethods []behavioral.Method
		for _, fn := range methods {
			behavioralMethods = append(behavioralMethods, behavioral.Method{Name: fn.Name, Body: fn.Body, IsTest: fn.IsTestFunction})
		}
		adjacency := behavioral.BuildAdjacency(behavioralMethods)
		clusters := behavioral.Refine(behavioral.HybridClusters(behavioralMethods, adjacency), behavioralMethods, adjacency)
		for _, split := range behavioral.RecommendSplits(clusters) {
			items = append(items, debt.Item{
				ID:       debt.NewID("split-recommendation", debt.Organization, file, line),
				Kind:     debt.Organization,
				Priority: debt.Low,
				File:     file,
				Line:     line,
				Message:  fmt.Sprintf("consider extracting %s (%s difficulty, coupling %.2f)", split.SuggestedModuleName, split.Difficulty, split.CouplingScore),
				Context:  map[string]string{"component": split.Component, "receiver": receiver},
			})
		}
	}
	return items
}

func languageFor(path string) suppression.Language {
	switch {
	case hasSuffix(path, ".py"):
		return suppression.Python
	case hasSuffix(path, ".rs"):
		return suppression.Rust
	default:
		return suppression.Go
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// aggregate builds the final report.Bundle from every file's outcome,
// following §4.10's aggregation steps: concatenate, build the dependency
// graph, detect cycles, compute complexity summary, categorize and sort debt.
func (o *Orchestrator) aggregate(outcomes []fileOutcome) report.Bundle {
	var metrics []report.FunctionMetric
	var items []debt.Item
	graph := depgraph.New()

	for _, oc := range outcomes {
		metrics = append(metrics, oc.metrics...)
		items = append(items, oc.items...)
		if oc.module != "" {
			graph.AddModule(oc.module)
			for _, dep := range oc.imports {
				graph.AddDependency(oc.module, dep)
			}
		}
	}

	var circular [][]string
	for _, c := range graph.DetectCycles() {
		circular = append(circular, c.Modules)
	}

	return report.Bundle{
		Complexity: report.NewComplexityReport(metrics, highComplexityThreshold),
		Debt:       report.NewTechnicalDebtReport(items),
		Dependency: report.DependencyReport{Modules: graph.SortedModules(), Circular: circular},
	}
}
