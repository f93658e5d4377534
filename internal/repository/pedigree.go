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

// PedigreeRepository persists and retrieves the pedigree submitted with an
// analysis request, keyed by analysis run ID.
type PedigreeRepository struct {
	db  dbConn
	log *logrus.Logger
}

// NewPedigreeRepository constructs a PedigreeRepository.
func NewPedigreeRepository(db *pgxpool.Pool, log *logrus.Logger) *PedigreeRepository {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PedigreeRepository{db: db, log: log}
}

// Save persists pedigree under analysisID, replacing any prior record.
func (r *PedigreeRepository) Save(ctx context.Context, analysisID string, pedigree *domain.Pedigree) error {
	raw, err := json.Marshal(pedigree.Members())
	if err != nil {
		return fmt.Errorf("encoding pedigree: %w", err)
	}

	const query = `
		INSERT INTO analysis_pedigrees (analysis_id, members)
		VALUES ($1, $2)
		ON CONFLICT (analysis_id) DO UPDATE SET members = EXCLUDED.members`

	if _, err := r.db.Exec(ctx, query, analysisID, raw); err != nil {
		r.log.WithFields(logrus.Fields{"analysis_id": analysisID, "error": err}).Error("failed to save pedigree")
		return fmt.Errorf("saving pedigree: %w", err)
	}
	return nil
}

// Get retrieves the pedigree saved under analysisID.
func (r *PedigreeRepository) Get(ctx context.Context, analysisID string) (*domain.Pedigree, error) {
	const query = `SELECT members FROM analysis_pedigrees WHERE analysis_id = $1`

	var raw []byte
	err := r.db.QueryRow(ctx, query, analysisID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: pedigree for analysis %s", domain.ErrNotFound, analysisID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading pedigree: %w", err)
	}

	var members []domain.Individual
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("decoding pedigree: %w", err)
	}
	return domain.NewPedigree(members)
}
