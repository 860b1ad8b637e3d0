// Command debtmap runs the full analysis pipeline over a directory and
// writes the aggregated report as yaml to stdout. Kept thin per §1 — all
// real behavior lives in internal/orchestrator and its dependencies.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/viant/debtmap/frontend/goast"
	"github.com/viant/debtmap/frontend/treesitter"
	"github.com/viant/debtmap/internal/cache"
	"github.com/viant/debtmap/internal/config"
	"github.com/viant/debtmap/internal/logging"
	"github.com/viant/debtmap/internal/orchestrator"
	"github.com/viant/debtmap/report"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional yaml config overlay")
		cachePath  = flag.String("cache", "", "optional sqlite cache file; disabled when empty")
	)
	flag.Parse()

	root := flag.Arg(0)
	if root == "" {
		root = "."
	}

	logger := logging.New("debtmap")
	ctx := context.Background()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		logger.Errorf("load config: %v", err)
		os.Exit(1)
	}

	var c *cache.Cache
	if *cachePath != "" {
		c, err = cache.Open(*cachePath, cfg.Cache)
		if err != nil {
			logger.Errorf("open cache: %v", err)
			os.Exit(1)
		}
		defer func() { _ = c.Close() }()
	}

	frontends := []orchestrator.FrontEnd{goast.New(), treesitter.New()}
	o := orchestrator.New(cfg, frontends, c)

	bundle, err := o.AnalyzeDir(ctx, root)
	if err != nil {
		logger.Errorf("analyze %s: %v", root, err)
		os.Exit(1)
	}

	if cfg.Timing {
		logger.Infof("analyzed %d files", o.Processed())
	}

	if err := report.WriteYAML(os.Stdout, bundle); err != nil {
		logger.Errorf("write report: %v", err)
		os.Exit(1)
	}
}
