// Command analyze runs one analysis pass over an annotated-variant batch
// and prints the ranked gene list as JSON, without starting the HTTP
// server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/genopri/analysis-engine/internal/analysis"
	"github.com/genopri/analysis-engine/internal/config"
	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/ranking"
)

// analysisInput is the on-disk shape consumed by this command: an
// annotated-variant batch and the pedigree it was called against. The
// analysis configuration, if omitted, falls back to the loaded
// application defaults.
type analysisInput struct {
	Variants []domain.VariantEvaluation `json:"variants"`
	Pedigree []domain.Individual        `json:"pedigree"`
	Config   *domain.AnalysisConfig     `json:"config"`
}

func main() {
	inputPath := flag.String("input", "", "path to an analysis input JSON file (required)")
	streaming := flag.Bool("streaming", false, "use the streaming runner's drop-on-fail memory policy")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input flag")
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("reading input file: %v", err)
	}

	var input analysisInput
	if err := json.Unmarshal(raw, &input); err != nil {
		log.Fatalf("decoding input file: %v", err)
	}
	if len(input.Variants) == 0 {
		log.Fatalf("%v", domain.ErrNoVariants)
	}

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}
	cfg := *configManager.GetAnalysisConfig()
	if input.Config != nil {
		cfg = *input.Config
	}

	pedigree, err := domain.NewPedigree(input.Pedigree)
	if err != nil {
		log.Fatalf("building pedigree: %v", err)
	}

	steps, err := analysis.BuildPipeline(cfg, nil)
	if err != nil {
		log.Fatalf("building analysis pipeline: %v", err)
	}
	a := analysis.NewAnalysis(steps, pedigree, cfg.InheritanceFrequencyCeilings)

	variants := make([]*domain.VariantEvaluation, len(input.Variants))
	for i := range input.Variants {
		variants[i] = &input.Variants[i]
	}

	logger := logrus.StandardLogger()
	var runner analysis.Runner
	if *streaming {
		runner = analysis.NewStreamingRunner(cfg.MaxWorkers, logger)
	} else {
		runner = analysis.NewSimpleRunner(cfg.MaxWorkers, logger)
	}

	genes, err := runner.Run(context.Background(), a, variants)
	if err != nil {
		log.Fatalf("running analysis: %v", err)
	}

	ranked := ranking.NewAggregator(ranking.DefaultConfig()).Rank(genes, pedigree, cfg.ModeOfInheritance)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ranked); err != nil {
		fmt.Fprintf(os.Stderr, "encoding result: %v\n", err)
		os.Exit(1)
	}
}
