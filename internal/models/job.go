package models

import (
	"time"

	"github.com/google/uuid"
)

// JobKind identifies which core component(s) a vision worker should run
// for a FrameJob.
type JobKind string

const (
	JobKindMRZ      JobKind = "mrz"
	JobKindPortrait JobKind = "portrait"
	JobKindPose     JobKind = "pose"
)

// FrameJob is published by the session API to the VISION_JOBS stream and
// consumed by exactly one vision worker.
type FrameJob struct {
	SessionID uuid.UUID `json:"session_id"`
	JobID     uuid.UUID `json:"job_id"`
	Kind      JobKind   `json:"kind"`
	Pose      string    `json:"pose,omitempty"` // set only for JobKindPose
	FrameData []byte    `json:"frame_data"`
	Timestamp time.Time `json:"timestamp"`
	ReplySubject string `json:"reply_subject"`
}

// FrameResult is published by the vision worker back to a job's reply
// subject once C1-C4 have run.
type FrameResult struct {
	SessionID  uuid.UUID `json:"session_id"`
	JobID      uuid.UUID `json:"job_id"`
	Kind       JobKind   `json:"kind"`
	Mrz        *MrzPayload      `json:"mrz,omitempty"`
	Portrait   *PortraitPayload `json:"portrait,omitempty"`
	Pose       *PosePayload     `json:"pose,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// MrzPayload carries the parsed MrzRecord fields over the wire.
type MrzPayload struct {
	DocumentType     string   `json:"document_type"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	IDNumber         string   `json:"id_number"`
	DateOfBirth      string   `json:"date_of_birth"`
	Gender           string   `json:"gender"`
	ExpiryDate       string   `json:"expiry_date"`
	Nationality      string   `json:"nationality"`
	QualityScore     int      `json:"quality_score"`
	QualityBand      string   `json:"quality_band"`
	QualityIssues    []string `json:"quality_issues,omitempty"`
	ChecksumWarnings []string `json:"checksum_warnings,omitempty"`
}

// PortraitPayload carries a detected face's crop (JPEG-encoded) and
// descriptor over the wire.
type PortraitPayload struct {
	CropJPEG   []byte    `json:"crop_jpeg"`
	Descriptor []float32 `json:"descriptor"`
}

// PosePayload carries one pose sample's geometry, quality, confidence, and
// descriptor. CropJPEG is set only for the front pose, which is retained as
// the selfie evidence image.
type PosePayload struct {
	Pose       string    `json:"pose"`
	Quality    float64   `json:"quality"`
	Confidence float64   `json:"confidence"`
	Poor       bool      `json:"poor"`
	LandmarksX []float32 `json:"landmarks_x"`
	LandmarksY []float32 `json:"landmarks_y"`
	Descriptor []float32 `json:"descriptor"`
	CropJPEG   []byte    `json:"crop_jpeg,omitempty"`
}
