package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/idverify/internal/config"
	"github.com/your-org/idverify/internal/models"
)

// PostgresStore persists completed attestation records. Descriptor vectors
// are never written here; there is nothing to index with a vector-search
// extension since matching happens once, in process, against the session's
// own portrait descriptor.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateAttestation inserts a completed attestation record, assigning its ID
// only if the caller hasn't already set one (evidence object keys are
// derived from this ID, so the session API always generates it up front).
func (s *PostgresStore) CreateAttestation(ctx context.Context, rec *models.AttestationRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return s.pool.QueryRow(ctx,
		`INSERT INTO attestations (
			id, session_id, first_name, last_name, id_number, date_of_birth, gender,
			expiry_date, nationality, document_type, match_score, is_live, liveness_score,
			verification_status, evidence_portrait_key, evidence_selfie_key
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING created_at`,
		rec.ID, rec.SessionID, rec.FirstName, rec.LastName, rec.IDNumber, rec.DateOfBirth, rec.Gender,
		rec.ExpiryDate, rec.Nationality, rec.DocumentType, rec.MatchScore, rec.IsLive, rec.LivenessScore,
		rec.VerificationStatus, rec.EvidencePortraitKey, rec.EvidenceSelfieKey,
	).Scan(&rec.CreatedAt)
}

func (s *PostgresStore) GetAttestation(ctx context.Context, id uuid.UUID) (*models.AttestationRecord, error) {
	rec := &models.AttestationRecord{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, session_id, first_name, last_name, id_number, date_of_birth, gender,
			expiry_date, nationality, document_type, match_score, is_live, liveness_score,
			verification_status, evidence_portrait_key, evidence_selfie_key, created_at
		 FROM attestations WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.SessionID, &rec.FirstName, &rec.LastName, &rec.IDNumber, &rec.DateOfBirth, &rec.Gender,
		&rec.ExpiryDate, &rec.Nationality, &rec.DocumentType, &rec.MatchScore, &rec.IsLive, &rec.LivenessScore,
		&rec.VerificationStatus, &rec.EvidencePortraitKey, &rec.EvidenceSelfieKey, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get attestation: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) GetAttestationBySession(ctx context.Context, sessionID uuid.UUID) (*models.AttestationRecord, error) {
	rec := &models.AttestationRecord{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, session_id, first_name, last_name, id_number, date_of_birth, gender,
			expiry_date, nationality, document_type, match_score, is_live, liveness_score,
			verification_status, evidence_portrait_key, evidence_selfie_key, created_at
		 FROM attestations WHERE session_id = $1`, sessionID,
	).Scan(&rec.ID, &rec.SessionID, &rec.FirstName, &rec.LastName, &rec.IDNumber, &rec.DateOfBirth, &rec.Gender,
		&rec.ExpiryDate, &rec.Nationality, &rec.DocumentType, &rec.MatchScore, &rec.IsLive, &rec.LivenessScore,
		&rec.VerificationStatus, &rec.EvidencePortraitKey, &rec.EvidenceSelfieKey, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get attestation by session: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListAttestations(ctx context.Context, limit, offset int) ([]models.AttestationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, first_name, last_name, id_number, date_of_birth, gender,
			expiry_date, nationality, document_type, match_score, is_live, liveness_score,
			verification_status, evidence_portrait_key, evidence_selfie_key, created_at
		 FROM attestations ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list attestations: %w", err)
	}
	defer rows.Close()

	var out []models.AttestationRecord
	for rows.Next() {
		var rec models.AttestationRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.FirstName, &rec.LastName, &rec.IDNumber, &rec.DateOfBirth, &rec.Gender,
			&rec.ExpiryDate, &rec.Nationality, &rec.DocumentType, &rec.MatchScore, &rec.IsLive, &rec.LivenessScore,
			&rec.VerificationStatus, &rec.EvidencePortraitKey, &rec.EvidenceSelfieKey, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attestation: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
