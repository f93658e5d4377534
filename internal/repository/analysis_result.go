package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// AnalysisResultRepository persists the ranked gene list produced by a
// completed analysis run, keyed by analysis run ID.
type AnalysisResultRepository struct {
	db  dbConn
	log *logrus.Logger
}

// NewAnalysisResultRepository constructs an AnalysisResultRepository.
func NewAnalysisResultRepository(db *pgxpool.Pool, log *logrus.Logger) *AnalysisResultRepository {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AnalysisResultRepository{db: db, log: log}
}

// resultRow is the persisted shape of a ranked gene: enough of domain.Gene
// to reconstruct the ranking without round-tripping every variant.
type resultRow struct {
	Symbol        string                            `json:"symbol"`
	ID            string                            `json:"id"`
	FilterScore   float64                           `json:"filter_score"`
	PriorityScore float64                           `json:"priority_score"`
	CombinedScore float64                           `json:"combined_score"`
	Priorities    map[domain.PriorityType]float64   `json:"priorities"`
}

// SaveResult persists the ranked gene list for analysisID, replacing any
// prior record.
func (r *AnalysisResultRepository) SaveResult(ctx context.Context, analysisID string, genes []*domain.Gene) error {
	rows := make([]resultRow, len(genes))
	for i, g := range genes {
		priorities := make(map[domain.PriorityType]float64, len(g.Priorities))
		for t, p := range g.Priorities {
			priorities[t] = p.Score
		}
		rows[i] = resultRow{
			Symbol:        g.Symbol,
			ID:            g.ID,
			FilterScore:   g.FilterScore,
			PriorityScore: g.PriorityScore,
			CombinedScore: (g.FilterScore + g.PriorityScore) / 2,
			Priorities:    priorities,
		}
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encoding analysis result: %w", err)
	}

	const query = `
		INSERT INTO analysis_results (analysis_id, genes)
		VALUES ($1, $2)
		ON CONFLICT (analysis_id) DO UPDATE SET genes = EXCLUDED.genes`

	if _, err := r.db.Exec(ctx, query, analysisID, raw); err != nil {
		r.log.WithFields(logrus.Fields{"analysis_id": analysisID, "error": err}).Error("failed to save analysis result")
		return fmt.Errorf("saving analysis result: %w", err)
	}
	return nil
}

// GetResult retrieves the ranked gene list saved under analysisID. The
// returned genes carry only the ranking fields persisted by SaveResult,
// not their full variant lists.
func (r *AnalysisResultRepository) GetResult(ctx context.Context, analysisID string) ([]*domain.Gene, error) {
	const query = `SELECT genes FROM analysis_results WHERE analysis_id = $1`

	var raw []byte
	err := r.db.QueryRow(ctx, query, analysisID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: analysis result %s", domain.ErrNotFound, analysisID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading analysis result: %w", err)
	}

	var rows []resultRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decoding analysis result: %w", err)
	}

	genes := make([]*domain.Gene, len(rows))
	for i, row := range rows {
		g := domain.NewGene(row.Symbol, row.ID)
		g.FilterScore = row.FilterScore
		g.PriorityScore = row.PriorityScore
		for t, score := range row.Priorities {
			g.Priorities[t] = domain.PriorityResult{Type: t, Score: score}
		}
		genes[i] = g
	}
	return genes, nil
}
