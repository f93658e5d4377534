package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/genopri/analysis-engine/internal/analysis"
	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/internal/middleware"
	"github.com/genopri/analysis-engine/internal/providers"
	"github.com/genopri/analysis-engine/internal/ranking"
)

// evidenceProvider resolves frequency and pathogenicity evidence for
// variants whose submitted payload omits one or both. Satisfied by
// pkg/external.ResilientProvider; kept as a local interface so this
// package never imports the cache/circuit-breaker transport directly.
type evidenceProvider interface {
	providers.FrequencyDataProvider
	providers.PathogenicityDataProvider
}

// Server is the HTTP front end for the analysis engine: it accepts a
// batch of annotated variants and a pedigree, runs the configured
// Analysis pipeline, and returns the ranked gene list.
type Server struct {
	configManager domain.ConfigManager
	runner        analysis.Runner
	resultRepo    domain.AnalysisResultRepository
	pedigreeRepo  domain.PedigreeRepository
	evidenceCache domain.EvidenceCacheRepository
	evidence      evidenceProvider
	aggregator    *ranking.Aggregator
	log           *logrus.Logger
	router        *gin.Engine
	server        *http.Server
}

// Dependencies collects Server's optional persistence and evidence-lookup
// collaborators. Any field left nil disables the feature it backs rather
// than failing construction: a deployment without Postgres still serves
// analyses, just without result/pedigree persistence or evidence caching.
type Dependencies struct {
	ResultRepo    domain.AnalysisResultRepository
	PedigreeRepo  domain.PedigreeRepository
	EvidenceCache domain.EvidenceCacheRepository
	Evidence      evidenceProvider
}

// NewServer constructs a Server. Every field of deps may be left nil; see
// Dependencies for what that disables.
func NewServer(configManager domain.ConfigManager, runner analysis.Runner, deps Dependencies, log *logrus.Logger) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger())

	s := &Server{
		configManager: configManager,
		runner:        runner,
		resultRepo:    deps.ResultRepo,
		pedigreeRepo:  deps.PedigreeRepo,
		evidenceCache: deps.EvidenceCache,
		evidence:      deps.Evidence,
		aggregator:    ranking.NewAggregator(ranking.DefaultConfig()),
		log:           log,
		router:        router,
	}
	s.setupRoutes()
	return s
}

// Handler returns the server's gin router, for use in tests that drive
// requests through httptest without binding a real listener.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	{
		v1.POST("/analyses", s.handleSubmitAnalysis)
		v1.GET("/analyses/:id", s.handleGetAnalysis)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// analysisRequest is the wire shape of a submitted analysis: an annotated
// variant batch, a pedigree, and the tunable analysis configuration.
type analysisRequest struct {
	Variants []variantPayload       `json:"variants" binding:"required,min=1"`
	Pedigree []domain.Individual    `json:"pedigree" binding:"required,min=1"`
	Config   domain.AnalysisConfig  `json:"config"`
}

type variantPayload struct {
	Coordinate    domain.GenomicCoordinate   `json:"coordinate"`
	Effect        domain.VariantEffect       `json:"effect"`
	GeneSymbol    string                     `json:"gene_symbol"`
	GeneID        string                     `json:"gene_id"`
	Genotypes     []domain.GenotypeCall      `json:"genotypes" binding:"required"`
	Frequency     *domain.FrequencyData      `json:"frequency"`
	Pathogenicity *domain.PathogenicityData  `json:"pathogenicity"`
	Quality       float64                    `json:"quality"`
}

// geneResult is the wire shape of one ranked gene in the response.
type geneResult struct {
	Symbol        string  `json:"symbol"`
	ID            string  `json:"id"`
	FilterScore   float64 `json:"filter_score"`
	PriorityScore float64 `json:"priority_score"`
	CombinedScore float64 `json:"combined_score"`
}

// handleSubmitAnalysis builds an Analysis from the request body, runs it
// synchronously, ranks the resulting genes, and returns them in
// descending combined-score order.
func (s *Server) handleSubmitAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": domain.ErrCodeInvalidInput, "error": err.Error()})
		return
	}

	pedigree, err := domain.NewPedigree(req.Pedigree)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": domain.ErrCodePedigreeError, "error": err.Error()})
		return
	}

	variants := make([]*domain.VariantEvaluation, len(req.Variants))
	for i, v := range req.Variants {
		variants[i] = &domain.VariantEvaluation{
			Coordinate:    v.Coordinate,
			Effect:        v.Effect,
			GeneSymbol:    v.GeneSymbol,
			GeneID:        v.GeneID,
			Genotypes:     v.Genotypes,
			Frequency:     v.Frequency,
			Pathogenicity: v.Pathogenicity,
			Quality:       v.Quality,
		}
	}
	s.backfillEvidence(c.Request.Context(), variants)

	steps, err := analysis.BuildPipeline(req.Config, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": domain.ErrCodeInvalidInput, "error": err.Error()})
		return
	}

	a := analysis.NewAnalysis(steps, pedigree, req.Config.InheritanceFrequencyCeilings)
	genes, err := s.runner.Run(c.Request.Context(), a, variants)
	if err != nil {
		s.log.WithError(err).Error("analysis run failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"code": domain.ErrCodeStepDependencyError, "error": err.Error()})
		return
	}

	ranked := s.aggregator.Rank(genes, pedigree, req.Config.ModeOfInheritance)

	analysisID := uuid.NewString()
	if s.pedigreeRepo != nil {
		if err := s.pedigreeRepo.Save(c.Request.Context(), analysisID, pedigree); err != nil {
			s.log.WithError(err).Warn("failed to persist pedigree")
		}
	}
	if s.resultRepo != nil {
		if err := s.resultRepo.SaveResult(c.Request.Context(), analysisID, ranked); err != nil {
			s.log.WithError(err).Warn("failed to persist analysis result")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis_id": analysisID,
		"genes":       toGeneResults(ranked),
	})
}

// backfillEvidence resolves frequency/pathogenicity evidence for any
// variant whose submitted payload left one or both nil: the persistent
// evidenceCache is checked first, then the resilient upstream provider,
// writing what it resolves back into evidenceCache for the next request
// over the same coordinate. Lookups run concurrently per variant; a
// failed lookup is logged and leaves that variant's evidence nil rather
// than failing the whole request.
func (s *Server) backfillEvidence(ctx context.Context, variants []*domain.VariantEvaluation) {
	if s.evidence == nil && s.evidenceCache == nil {
		return
	}

	var wg sync.WaitGroup
	for _, v := range variants {
		v := v
		if v.Frequency == nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v.Frequency = s.resolveFrequency(ctx, v.Coordinate)
			}()
		}
		if v.Pathogenicity == nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v.Pathogenicity = s.resolvePathogenicity(ctx, v.Coordinate, v.Effect)
			}()
		}
	}
	wg.Wait()
}

func (s *Server) resolveFrequency(ctx context.Context, coord domain.GenomicCoordinate) *domain.FrequencyData {
	if s.evidenceCache != nil {
		if data, ok, err := s.evidenceCache.GetFrequency(ctx, coord); err != nil {
			s.log.WithError(err).WithField("coordinate", coord.String()).Warn("frequency cache lookup failed")
		} else if ok {
			return data
		}
	}
	if s.evidence == nil {
		return nil
	}
	data, err := s.evidence.GetFrequencyData(ctx, coord)
	if err != nil {
		s.log.WithError(err).WithField("coordinate", coord.String()).Warn("frequency lookup failed")
		return nil
	}
	if s.evidenceCache != nil {
		if err := s.evidenceCache.PutFrequency(ctx, coord, data); err != nil {
			s.log.WithError(err).WithField("coordinate", coord.String()).Warn("failed to cache frequency result")
		}
	}
	return data
}

func (s *Server) resolvePathogenicity(ctx context.Context, coord domain.GenomicCoordinate, effect domain.VariantEffect) *domain.PathogenicityData {
	if s.evidenceCache != nil {
		if data, ok, err := s.evidenceCache.GetPathogenicity(ctx, coord, effect); err != nil {
			s.log.WithError(err).WithField("coordinate", coord.String()).Warn("pathogenicity cache lookup failed")
		} else if ok {
			return data
		}
	}
	if s.evidence == nil {
		return nil
	}
	data, err := s.evidence.GetPathogenicityData(ctx, coord, effect)
	if err != nil {
		s.log.WithError(err).WithField("coordinate", coord.String()).Warn("pathogenicity lookup failed")
		return nil
	}
	if s.evidenceCache != nil {
		if err := s.evidenceCache.PutPathogenicity(ctx, coord, effect, data); err != nil {
			s.log.WithError(err).WithField("coordinate", coord.String()).Warn("failed to cache pathogenicity result")
		}
	}
	return data
}

// handleGetAnalysis retrieves a previously persisted ranked gene list.
func (s *Server) handleGetAnalysis(c *gin.Context) {
	if s.resultRepo == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "analysis result persistence is not configured"})
		return
	}
	genes, err := s.resultRepo.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": domain.ErrCodeInvalidInput, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis_id": c.Param("id"), "genes": toGeneResults(genes)})
}

func toGeneResults(genes []*domain.Gene) []geneResult {
	out := make([]geneResult, len(genes))
	for i, g := range genes {
		out[i] = geneResult{
			Symbol:        g.Symbol,
			ID:            g.ID,
			FilterScore:   g.FilterScore,
			PriorityScore: g.PriorityScore,
			CombinedScore: (g.FilterScore + g.PriorityScore) / 2,
		}
	}
	return out
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key")
		c.Header("Access-Control-Expose-Headers", "Content-Length")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
