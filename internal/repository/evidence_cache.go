// Package repository persists domain-stack data that supplements the
// analysis pipeline without being part of its scored core: evidence-lookup
// results replayed across runs, and submitted pedigrees.
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

// EvidenceCacheRepository persists resolved frequency/pathogenicity
// evidence keyed by coordinate (and, for pathogenicity, variant effect) so
// repeated analyses over the same coordinates can skip the upstream
// provider round-trip.
type EvidenceCacheRepository struct {
	db  dbConn
	log *logrus.Logger
}

// NewEvidenceCacheRepository constructs an EvidenceCacheRepository.
func NewEvidenceCacheRepository(db *pgxpool.Pool, log *logrus.Logger) *EvidenceCacheRepository {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EvidenceCacheRepository{db: db, log: log}
}

// GetFrequency looks up a cached FrequencyData for coord.
func (r *EvidenceCacheRepository) GetFrequency(ctx context.Context, coord domain.GenomicCoordinate) (*domain.FrequencyData, bool, error) {
	const query = `SELECT per_source FROM evidence_cache_frequency WHERE chromosome = $1 AND position = $2 AND ref = $3 AND alt = $4`

	var raw []byte
	err := r.db.QueryRow(ctx, query, coord.Chromosome, coord.Position, coord.Ref, coord.Alt).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		r.log.WithFields(logrus.Fields{"coordinate": coord.String(), "error": err}).Error("failed to read frequency cache")
		return nil, false, fmt.Errorf("reading frequency cache: %w", err)
	}

	var data domain.FrequencyData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false, fmt.Errorf("decoding frequency cache: %w", err)
	}
	return &data, true, nil
}

// PutFrequency upserts the frequency evidence for coord.
func (r *EvidenceCacheRepository) PutFrequency(ctx context.Context, coord domain.GenomicCoordinate, data *domain.FrequencyData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding frequency cache: %w", err)
	}

	const query = `
		INSERT INTO evidence_cache_frequency (chromosome, position, ref, alt, per_source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chromosome, position, ref, alt) DO UPDATE SET per_source = EXCLUDED.per_source`

	if _, err := r.db.Exec(ctx, query, coord.Chromosome, coord.Position, coord.Ref, coord.Alt, raw); err != nil {
		r.log.WithFields(logrus.Fields{"coordinate": coord.String(), "error": err}).Error("failed to write frequency cache")
		return fmt.Errorf("writing frequency cache: %w", err)
	}
	return nil
}

// GetPathogenicity looks up cached PathogenicityData for coord and effect.
func (r *EvidenceCacheRepository) GetPathogenicity(ctx context.Context, coord domain.GenomicCoordinate, effect domain.VariantEffect) (*domain.PathogenicityData, bool, error) {
	const query = `SELECT poly_phen, sift, mutation_taster, cadd FROM evidence_cache_pathogenicity WHERE chromosome = $1 AND position = $2 AND ref = $3 AND alt = $4 AND effect = $5`

	var data domain.PathogenicityData
	err := r.db.QueryRow(ctx, query, coord.Chromosome, coord.Position, coord.Ref, coord.Alt, effect).
		Scan(&data.PolyPhen, &data.SIFT, &data.MutationTaster, &data.CADD)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		r.log.WithFields(logrus.Fields{"coordinate": coord.String(), "effect": effect, "error": err}).Error("failed to read pathogenicity cache")
		return nil, false, fmt.Errorf("reading pathogenicity cache: %w", err)
	}
	return &data, true, nil
}

// PutPathogenicity upserts the pathogenicity evidence for coord and effect.
func (r *EvidenceCacheRepository) PutPathogenicity(ctx context.Context, coord domain.GenomicCoordinate, effect domain.VariantEffect, data *domain.PathogenicityData) error {
	const query = `
		INSERT INTO evidence_cache_pathogenicity (chromosome, position, ref, alt, effect, poly_phen, sift, mutation_taster, cadd)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (chromosome, position, ref, alt, effect) DO UPDATE SET
			poly_phen = EXCLUDED.poly_phen, sift = EXCLUDED.sift,
			mutation_taster = EXCLUDED.mutation_taster, cadd = EXCLUDED.cadd`

	if _, err := r.db.Exec(ctx, query, coord.Chromosome, coord.Position, coord.Ref, coord.Alt, effect,
		data.PolyPhen, data.SIFT, data.MutationTaster, data.CADD); err != nil {
		r.log.WithFields(logrus.Fields{"coordinate": coord.String(), "effect": effect, "error": err}).Error("failed to write pathogenicity cache")
		return fmt.Errorf("writing pathogenicity cache: %w", err)
	}
	return nil
}
