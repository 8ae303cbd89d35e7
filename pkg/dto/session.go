package dto

import "github.com/google/uuid"

type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	Phase     string    `json:"phase"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

type MrzQualityResponse struct {
	Score int      `json:"score"`
	Band  string   `json:"band"`
	Issues []string `json:"issues,omitempty"`
}

type MrzResultResponse struct {
	DocumentType      string             `json:"document_type"`
	FirstName         string             `json:"first_name"`
	LastName          string             `json:"last_name"`
	IDNumber          string             `json:"id_number"`
	DateOfBirth       string             `json:"date_of_birth"`
	Gender            string             `json:"gender"`
	ExpiryDate        string             `json:"expiry_date"`
	Nationality       string             `json:"nationality"`
	Quality           MrzQualityResponse `json:"quality"`
	ChecksumWarnings  []string           `json:"checksum_warnings,omitempty"`
}

type PortraitResultResponse struct {
	Detected      bool `json:"detected"`
	DescriptorLen int  `json:"descriptor_len"`
}

type LivenessPoseResponse struct {
	Pose           string   `json:"pose"`
	Accepted       bool     `json:"accepted"`
	NextPose       string   `json:"next_pose,omitempty"`
	RemainingPoses []string `json:"remaining_poses,omitempty"`
}

type VerificationResultResponse struct {
	IsMatch         bool    `json:"is_match"`
	Distance        float64 `json:"distance"`
	Similarity      float64 `json:"similarity"`
	IsLive          bool    `json:"is_live"`
	LivenessScore   float64 `json:"liveness_score"`
	StaticSuspected bool    `json:"static_suspected"`
}

type SubmitResponse struct {
	AttestationID uuid.UUID `json:"attestation_id"`
	Status        string    `json:"status"`
	SubmittedAt   string    `json:"submitted_at"`
}

type ErrorResponse struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
	Reason    string `json:"reason,omitempty"`
}
