// Package attestation implements the attestation assembler (C9): merging
// the MRZ record, the match decision, and the liveness result into the
// final attestation.
package attestation

import (
	"time"

	"github.com/your-org/idverify/internal/core/liveness"
	"github.com/your-org/idverify/internal/core/match"
	"github.com/your-org/idverify/internal/core/mrz"
)

// VerificationStatus is the final pass/fail verdict recorded on the
// attestation.
type VerificationStatus string

const (
	StatusVerified      VerificationStatus = "verified"
	StatusFailedMatch   VerificationStatus = "failed_match"
	StatusFailedLive    VerificationStatus = "failed_liveness"
)

// Biometrics carries the fused match and liveness outcome.
type Biometrics struct {
	MatchScore         float64
	IsLive             bool
	LivenessScore      float64
	VerificationStatus VerificationStatus
}

// Attestation is C9's output: identity fields merged with the biometric
// verdict and document type.
type Attestation struct {
	FirstName    string
	LastName     string
	IDNumber     string
	DateOfBirth  string
	Gender       string
	ExpiryDate   string
	Nationality  string
	DocumentType mrz.DocumentType
	Biometrics   Biometrics
	Timestamp    time.Time
}

// Assemble merges a completed MrzRecord with the match and liveness results
// into the final Attestation.
func Assemble(record *mrz.Record, matchResult match.Result, liveResult liveness.Result, now time.Time) Attestation {
	status := StatusVerified
	switch {
	case !matchResult.IsMatch:
		status = StatusFailedMatch
	case !liveResult.IsLive:
		status = StatusFailedLive
	}

	return Attestation{
		FirstName:    record.FirstName,
		LastName:     record.LastName,
		IDNumber:     record.IDNumber,
		DateOfBirth:  record.DateOfBirth,
		Gender:       record.Gender,
		ExpiryDate:   record.ExpiryDate,
		Nationality:  record.Nationality,
		DocumentType: record.DocumentType,
		Biometrics: Biometrics{
			MatchScore:         matchResult.Similarity,
			IsLive:             liveResult.IsLive,
			LivenessScore:      liveResult.Score,
			VerificationStatus: status,
		},
		Timestamp: now,
	}
}
