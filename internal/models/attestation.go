package models

import (
	"time"

	"github.com/google/uuid"
)

// AttestationRecord is the durable row derived from a completed
// verification: identity fields and verdicts only. Descriptor vectors are
// never written here.
type AttestationRecord struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	SessionID           uuid.UUID `json:"session_id" db:"session_id"`
	FirstName           string    `json:"first_name" db:"first_name"`
	LastName            string    `json:"last_name" db:"last_name"`
	IDNumber            string    `json:"id_number" db:"id_number"`
	DateOfBirth         string    `json:"date_of_birth" db:"date_of_birth"`
	Gender              string    `json:"gender" db:"gender"`
	ExpiryDate          string    `json:"expiry_date" db:"expiry_date"`
	Nationality         string    `json:"nationality" db:"nationality"`
	DocumentType        string    `json:"document_type" db:"document_type"`
	MatchScore          float64   `json:"match_score" db:"match_score"`
	IsLive              bool      `json:"is_live" db:"is_live"`
	LivenessScore       float64   `json:"liveness_score" db:"liveness_score"`
	VerificationStatus  string    `json:"verification_status" db:"verification_status"`
	EvidencePortraitKey string    `json:"evidence_portrait_key" db:"evidence_portrait_key"`
	EvidenceSelfieKey   string    `json:"evidence_selfie_key" db:"evidence_selfie_key"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}
