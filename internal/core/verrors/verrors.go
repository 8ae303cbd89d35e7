// Package verrors defines the typed error taxonomy shared by every phase of
// the verification pipeline, so callers can branch on failure kind with
// errors.As instead of matching error strings.
package verrors

import (
	"errors"
	"fmt"
)

// Kind identifies a class of pipeline failure.
type Kind string

const (
	CameraPermissionDenied Kind = "camera_permission_denied"
	NoCamera               Kind = "no_camera"
	VideoTimeout           Kind = "video_timeout"
	ModelLoadFailure       Kind = "model_load_failure"
	OcrBackendMissing      Kind = "ocr_backend_missing"
	MrzUnreadable          Kind = "mrz_unreadable"
	MrzUnparseable         Kind = "mrz_unparseable"
	NoFaceOnDocument       Kind = "no_face_on_document"
	DescriptorInvalid      Kind = "descriptor_invalid"
	LivenessFailed         Kind = "liveness_failed"
	StaticAttackSuspected  Kind = "static_attack_suspected"
	FaceMismatch           Kind = "face_mismatch"
	Transient              Kind = "transient"
)

// Error is the concrete error type carried through the pipeline. Reason and
// Distance are populated only for the kinds that need them (LivenessFailed,
// FaceMismatch) and are otherwise zero-valued.
type Error struct {
	Kind     Kind
	Message  string
	Reason   string
	Distance float64
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error that wraps an underlying cause, retrievable via
// errors.Unwrap/errors.Is.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// LivenessFailure builds a LivenessFailed error carrying the specific reason
// (e.g. "static_attack", "low_confidence", "pose_mismatch").
func LivenessFailure(reason string) *Error {
	return &Error{Kind: LivenessFailed, Message: "liveness check failed", Reason: reason}
}

// MismatchFailure builds a FaceMismatch error carrying the measured
// Euclidean distance that exceeded the match threshold.
func MismatchFailure(distance float64) *Error {
	return &Error{Kind: FaceMismatch, Message: "face descriptors do not match", Distance: distance}
}

// TransientFailure builds a Transient error wrapping a retryable cause.
func TransientFailure(cause error) *Error {
	return &Error{Kind: Transient, Message: "transient failure, retry", Cause: cause}
}

// Retryable reports whether the phase controller should allow the caller to
// retry the current phase without discarding prior progress. Every kind
// except ModelLoadFailure is retryable.
func Retryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind != ModelLoadFailure
}
